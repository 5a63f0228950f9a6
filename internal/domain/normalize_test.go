package domain

import "testing"

func TestNormalizeMapeo_LegacyShape(t *testing.T) {
	raw := map[string]any{
		"id":          float64(4),
		"id_linea":    float64(2),
		"nombre":      "Mapeo base",
		"descripcion": "carga inicial",
		"status":      float64(1),
	}

	m := NormalizeMapeo(raw)
	if m.MapeoID != 4 {
		t.Fatalf("expected mapeo id 4, got %d", m.MapeoID)
	}
	if m.LineaID != 2 {
		t.Fatalf("expected linea id 2, got %d", m.LineaID)
	}
	if !m.Activo {
		t.Fatalf("expected status 1 to normalize to activo=true")
	}
	if m.CampanaID != nil {
		t.Fatalf("expected no campaña id without an id_campana alias, got %d", *m.CampanaID)
	}
	if m.CampaignScoped() {
		t.Fatalf("record without campaña alias must be line-scoped")
	}
}

func TestNormalizeMapeo_FormalAliasWinsOverLegacy(t *testing.T) {
	raw := map[string]any{
		"idABCConfigMapeoLinea": float64(5),
		"id":                    float64(9),
	}

	if m := NormalizeMapeo(raw); m.MapeoID != 5 {
		t.Fatalf("expected formal field to win over legacy alias, got %d", m.MapeoID)
	}
}

func TestNormalizeMapeo_CampaignAliasFixesScope(t *testing.T) {
	raw := map[string]any{
		"id":         float64(3),
		"id_linea":   float64(1),
		"id_campana": float64(7),
		"bolActivo":  true,
	}

	m := NormalizeMapeo(raw)
	if m.CampanaID == nil || *m.CampanaID != 7 {
		t.Fatalf("expected campaña id 7, got %v", m.CampanaID)
	}
	if !m.CampaignScoped() {
		t.Fatalf("record with campaña alias must be campaign-scoped")
	}
}

func TestNormalizeMapeo_NullAliasIsSkipped(t *testing.T) {
	raw := map[string]any{
		"idABCConfigMapeoLinea": nil,
		"id":                    float64(9),
		"id_campana":            nil,
	}

	m := NormalizeMapeo(raw)
	if m.MapeoID != 9 {
		t.Fatalf("null alias must not shadow a later defined one, got %d", m.MapeoID)
	}
	if m.CampanaID != nil {
		t.Fatalf("a null campaña alias must leave the record line-scoped")
	}
}

func TestNormalizeMapeo_DefaultsOnEmptyInput(t *testing.T) {
	m := NormalizeMapeo(map[string]any{})
	if m.MapeoID != 0 || m.LineaID != 0 || m.Nombre != "" || m.Activo {
		t.Fatalf("expected zero defaults, got %+v", m)
	}
	if m.Dictaminacion != nil {
		t.Fatalf("dictaminación must stay unset without an alias")
	}
}

func TestDecodeMapeos_BareArray(t *testing.T) {
	body := []byte(`[{"id": 1, "status": 1}, {"id": 2, "status": 0}]`)

	mapeos, err := DecodeMapeos(body)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(mapeos) != 2 {
		t.Fatalf("expected 2 records, got %d", len(mapeos))
	}
	if mapeos[0].MapeoID != 1 || mapeos[1].MapeoID != 2 {
		t.Fatalf("element order must be preserved, got %+v", mapeos)
	}
	if !mapeos[0].Activo || mapeos[1].Activo {
		t.Fatalf("status encoding mishandled: %+v", mapeos)
	}
}

func TestDecodeMapeos_DataEnvelope(t *testing.T) {
	body := []byte(`{"data": [{"idABCConfigMapeoLinea": 11, "bolActivo": true}]}`)

	mapeos, err := DecodeMapeos(body)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(mapeos) != 1 || mapeos[0].MapeoID != 11 || !mapeos[0].Activo {
		t.Fatalf("envelope not unwrapped: %+v", mapeos)
	}
}

func TestDecodeMapeo_SingleObjectEnvelope(t *testing.T) {
	m, err := DecodeMapeo([]byte(`{"data": {"id_mapeo": 6, "idLinea": 3}}`))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if m.MapeoID != 6 || m.LineaID != 3 {
		t.Fatalf("unexpected record: %+v", m)
	}
}

func TestNormalizeColumna_FlagsAndRegex(t *testing.T) {
	raw := map[string]any{
		"idABCCatColumna":       float64(12),
		"idABCConfigMapeoLinea": float64(4),
		"nombre":                "curp",
		"regex":                 `^[A-Z]{4}\d{6}$`,
		"bolActivo":             true,
		"bolCargar":             true,
		"modificar":             float64(1),
		"bolEnviar":             false,
		"bolDictaminacion":      false,
	}

	c := NormalizeColumna(raw)
	if c.CatColumnaID != 12 || c.MapeoID != 4 {
		t.Fatalf("unexpected ids: %+v", c)
	}
	if c.Regex != `^[A-Z]{4}\d{6}$` {
		t.Fatalf("regex must pass through opaquely, got %q", c.Regex)
	}
	if !c.Cargar || !c.Modificar || c.Enviar {
		t.Fatalf("capability flags mishandled: %+v", c)
	}
	if c.Dictaminacion == nil || *c.Dictaminacion {
		t.Fatalf("expected dictaminación explicitly false, got %v", c.Dictaminacion)
	}
}
