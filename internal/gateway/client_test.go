package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abcconfig/mapeo-admin/internal/domain"
)

type capturedRequest struct {
	method string
	path   string
	body   map[string]any
}

// newCaptureServer records every request and answers with the given body.
func newCaptureServer(t *testing.T, status int, response string) (*Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			if err := json.Unmarshal(b, &captured.body); err != nil {
				t.Errorf("request body is not valid JSON: %v", err)
			}
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing Content-Type header, got %q", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithLogger(log.New(io.Discard, "", 0))), captured
}

func TestCreateMapeo_LineScopedRouting(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{"id": 1}`)

	_, err := client.CreateMapeo(context.Background(), 3, nil, domain.MapeoPayload{Nombre: "X"}, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/3/mapeos" {
		t.Fatalf("expected line-create path, got %s", captured.path)
	}
	if captured.method != http.MethodPost {
		t.Fatalf("expected POST, got %s", captured.method)
	}
	if captured.body["idUsuario"] != float64(42) {
		t.Fatalf("actor id missing from payload: %v", captured.body)
	}
}

func TestCreateMapeo_CampaignScopedRouting(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{"id": 1}`)

	campana := 7
	_, err := client.CreateMapeo(context.Background(), 3, &campana, domain.MapeoPayload{Nombre: "X"}, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/3/campanas/7/mapeos" {
		t.Fatalf("expected campaign-create path, got %s", captured.path)
	}
}

func TestUpdateMapeo_MirrorsNestedRecordUnderBothKeys(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{"id": 5}`)

	_, err := client.UpdateMapeo(context.Background(), domain.MapeoUpdate{
		MapeoID: 5, LineaID: 2, Nombre: "nuevo",
	}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/mapeos" {
		t.Fatalf("expected line-update path, got %s", captured.path)
	}
	singular, ok := captured.body["mapeo"].(map[string]any)
	if !ok {
		t.Fatalf("nested record missing under \"mapeo\": %v", captured.body)
	}
	plural, ok := captured.body["mapeos"].(map[string]any)
	if !ok {
		t.Fatalf("nested record missing under \"mapeos\": %v", captured.body)
	}
	if singular["id"] != float64(5) || plural["id"] != float64(5) {
		t.Fatalf("mirrored records disagree: %v vs %v", singular, plural)
	}
}

func TestUpdateMapeo_CampaignIDSwitchesEndpoint(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{"id": 5}`)

	campana := 9
	_, err := client.UpdateMapeo(context.Background(), domain.MapeoUpdate{
		MapeoID: 5, LineaID: 2, CampanaID: &campana,
	}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/campanas/mapeos" {
		t.Fatalf("expected campaign-update path, got %s", captured.path)
	}
	nested := captured.body["mapeo"].(map[string]any)
	if nested["id_campana"] != float64(9) {
		t.Fatalf("campaña id missing from nested record: %v", nested)
	}
}

func TestDeleteMapeo_NotFoundMapsToDomainError(t *testing.T) {
	client, _ := newCaptureServer(t, http.StatusNotFound, `{}`)

	err := client.DeleteMapeo(context.Background(), 3, nil, 99)
	if err == nil {
		t.Fatalf("expected error for 404 response")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected 404 to satisfy ErrNotFound, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Fatalf("expected StatusError with code 404, got %v", err)
	}
}

func TestActivateMapeo_PatchPayloadAndResponseNormalization(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{"idABCConfigMapeoLinea": 5, "status": 1}`)

	m, err := client.ActivateMapeo(context.Background(), 5, false, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/mapeos/activar" || captured.method != http.MethodPatch {
		t.Fatalf("unexpected dispatch: %s %s", captured.method, captured.path)
	}
	nested := captured.body["mapeo"].(map[string]any)
	if nested["id"] != float64(5) {
		t.Fatalf("mapeo id missing from patch payload: %v", nested)
	}
	if m.MapeoID != 5 || !m.Activo {
		t.Fatalf("response not normalized: %+v", m)
	}
}

func TestDeactivateMapeo_CampaignEndpoint(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{"id": 5, "bolActivo": false}`)

	if _, err := client.DeactivateMapeo(context.Background(), 5, true, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/campanas/mapeos/desactivar" {
		t.Fatalf("expected campaign-deactivate path, got %s", captured.path)
	}
}

func TestPatchColumna_CarriesTipoWrapper(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{}`)

	if err := client.ActivateColumna(context.Background(), 12, true, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/campanas/mapeos/columnas/activar" {
		t.Fatalf("unexpected path %s", captured.path)
	}
	columna, ok := captured.body["columna"].(map[string]any)
	if !ok {
		t.Fatalf("columna wrapper missing: %v", captured.body)
	}
	tipo, ok := columna["tipo"].(map[string]any)
	if !ok || tipo["id"] != float64(12) {
		t.Fatalf("tipo wrapper not preserved: %v", columna)
	}
}

func TestColumnasByMapeo_NormalizesEnvelope(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK,
		`{"data": [{"idABCCatColumna": 2, "regex": "^\\d+$", "bolActivo": true, "cargar": 1}]}`)

	columnas, err := client.ColumnasByMapeo(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/mapeos/4/columnas" {
		t.Fatalf("unexpected path %s", captured.path)
	}
	if len(columnas) != 1 || columnas[0].CatColumnaID != 2 || !columnas[0].Cargar {
		t.Fatalf("response not normalized: %+v", columnas)
	}
}

func TestCreateColumnaCampana_GlobalEndpointShape(t *testing.T) {
	client, captured := newCaptureServer(t, http.StatusOK, `{"idABCCatColumna": 3}`)

	_, err := client.CreateColumnaCampana(context.Background(), domain.ColumnaCampanaPayload{
		MapeoConfigID: 8, CatColumnaID: 3, Regex: "^.*$",
	}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.path != "/lineas/0/campanas/0/mapeos/columnas" {
		t.Fatalf("unexpected path %s", captured.path)
	}
	if captured.body["idABCConfigMapeoCampana"] != float64(8) ||
		captured.body["idABCCatColumna"] != float64(3) ||
		captured.body["idUsuario"] != float64(5) {
		t.Fatalf("unexpected global-create payload: %v", captured.body)
	}
}
