package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abcconfig/mapeo-admin/internal/domain"
	"github.com/abcconfig/mapeo-admin/internal/mock"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := mock.NewStore(mock.WithLatency(0))
	ts := httptest.NewServer(NewRouter(store, store, nil, nil, nil))
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, body string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func TestListLineas(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodGet, "/lineas", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var lineas []domain.Linea
	if err := json.Unmarshal(body, &lineas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lineas) != 2 {
		t.Fatalf("got %d lineas, want 2", len(lineas))
	}
}

func TestGetCampanaFourSegmentDispatch(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodGet, "/lineas/1/campanas/10", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	var campana domain.Campana
	if err := json.Unmarshal(body, &campana); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if campana.ID != 10 {
		t.Fatalf("campana id = %d, want 10", campana.ID)
	}
}

func TestListColumnasFourSegmentDispatch(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodGet, "/lineas/mapeos/1/columnas", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	var columnas []domain.Columna
	if err := json.Unmarshal(body, &columnas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(columnas) != 2 {
		t.Fatalf("got %d columnas, want 2", len(columnas))
	}
	for _, c := range columnas {
		if c.MapeoID != 1 {
			t.Fatalf("columna %d belongs to mapeo %d, want 1", c.CatColumnaID, c.MapeoID)
		}
	}
}

func TestFourSegmentDispatchUnknownShape(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doRequest(t, ts, http.MethodGet, "/lineas/1/foo/2", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateMapeoLinea(t *testing.T) {
	ts := newTestServer(t)

	body := `{"mapeo":{"nombre":"Recuperación","descripcion":"layout de recuperación"},"idUsuario":7}`
	resp, out := doRequest(t, ts, http.MethodPost, "/lineas/1/mapeos", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", resp.StatusCode, out)
	}
	var created domain.Mapeo
	if err := json.Unmarshal(out, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.MapeoID == 0 {
		t.Fatalf("created mapeo has no id: %s", out)
	}
	if !created.Activo {
		t.Fatal("created mapeo is not active")
	}
	if created.UsuarioID != 7 {
		t.Fatalf("actor = %d, want 7", created.UsuarioID)
	}
	if created.CampanaID != nil {
		t.Fatalf("line-level mapeo carries campana id %d", *created.CampanaID)
	}

	// the formal field names must appear on the wire
	for _, key := range []string{"idABCConfigMapeoLinea", "idABCCatLineaNegocio", "bolActivo", "fecCreacion"} {
		if !strings.Contains(string(out), key) {
			t.Fatalf("response missing field %q: %s", key, out)
		}
	}
}

func TestCreateMapeoCampana(t *testing.T) {
	ts := newTestServer(t)

	body := `{"mapeo":{"nombre":"Campaña verano","descripcion":""},"idUsuario":7}`
	resp, out := doRequest(t, ts, http.MethodPost, "/lineas/1/campanas/10/mapeos", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", resp.StatusCode, out)
	}
	var created domain.Mapeo
	if err := json.Unmarshal(out, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CampanaID == nil || *created.CampanaID != 10 {
		t.Fatalf("campaign mapeo scope = %v, want 10", created.CampanaID)
	}
}

func TestCreateMapeoRequiresActor(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doRequest(t, ts, http.MethodPost, "/lineas/1/mapeos", `{"mapeo":{"nombre":"x"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", resp.StatusCode, out)
	}
}

func TestCreateMapeoActorFromHeader(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/lineas/1/mapeos",
		strings.NewReader(`{"mapeo":{"nombre":"x","descripcion":"y"}}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Usuario-Id", "42")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created domain.Mapeo
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.UsuarioID != 42 {
		t.Fatalf("actor = %d, want 42 from header", created.UsuarioID)
	}
}

func TestUpdateMapeoAcceptsLegacyNestedKey(t *testing.T) {
	ts := newTestServer(t)

	// the nested record arrives under "mapeos" with legacy field names
	body := `{"mapeos":{"id":1,"id_linea":1,"nombre":"renombrado","descripcion":"nueva"},"idUsuario":9}`
	resp, out := doRequest(t, ts, http.MethodPut, "/lineas/mapeos", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, out)
	}
	var updated domain.Mapeo
	if err := json.Unmarshal(out, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Nombre != "renombrado" {
		t.Fatalf("nombre = %q, want renombrado", updated.Nombre)
	}
	if updated.UsuarioUltModificacion != 9 {
		t.Fatalf("last modifier = %d, want 9", updated.UsuarioUltModificacion)
	}
}

func TestUpdateMapeoMissingRecord(t *testing.T) {
	ts := newTestServer(t)

	body := `{"mapeo":{"id":999,"id_linea":1,"nombre":"x"},"idUsuario":9}`
	resp, out := doRequest(t, ts, http.MethodPut, "/lineas/mapeos", body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", resp.StatusCode, out)
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(out, &e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if e.Error == "" {
		t.Fatal("error body has no message")
	}
}

func TestDeleteMapeoIsIdempotent(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp, out := doRequest(t, ts, http.MethodDelete, "/lineas/1/mapeos/2", "")
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete #%d status = %d, want 204: %s", i+1, resp.StatusCode, out)
		}
	}

	resp, body := doRequest(t, ts, http.MethodGet, "/lineas/1/mapeos", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var mapeos []domain.Mapeo
	if err := json.Unmarshal(body, &mapeos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, m := range mapeos {
		if m.MapeoID == 2 {
			t.Fatal("mapeo 2 still listed after delete")
		}
	}
}

func TestPatchMapeoDeactivate(t *testing.T) {
	ts := newTestServer(t)

	body := `{"mapeo":{"id":1},"idUsuario":5}`
	resp, out := doRequest(t, ts, http.MethodPatch, "/lineas/mapeos/desactivar", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, out)
	}
	var patched domain.Mapeo
	if err := json.Unmarshal(out, &patched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if patched.Activo {
		t.Fatal("mapeo still active after desactivar")
	}

	// deactivating again is absolute, not a flip
	resp, out = doRequest(t, ts, http.MethodPatch, "/lineas/mapeos/desactivar", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second patch status = %d: %s", resp.StatusCode, out)
	}
	if err := json.Unmarshal(out, &patched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if patched.Activo {
		t.Fatal("second desactivar re-activated the mapeo")
	}
}

func TestPatchMapeoCampanaScope(t *testing.T) {
	ts := newTestServer(t)

	body := `{"mapeo":{"id":4},"idUsuario":5}`
	resp, out := doRequest(t, ts, http.MethodPatch, "/lineas/campanas/mapeos/desactivar", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, out)
	}

	// the same id does not exist at line scope
	resp, out = doRequest(t, ts, http.MethodPatch, "/lineas/mapeos/desactivar", body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("line-scope patch of campaign mapeo: status = %d, want 404: %s", resp.StatusCode, out)
	}
}

func TestListAllMapeosLineZero(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doRequest(t, ts, http.MethodGet, "/lineas/0/mapeos", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var mapeos []domain.Mapeo
	if err := json.Unmarshal(body, &mapeos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mapeos) != 4 {
		t.Fatalf("got %d mapeos, want all 4 seeded", len(mapeos))
	}
	for i := 1; i < len(mapeos); i++ {
		if mapeos[i-1].MapeoID > mapeos[i].MapeoID {
			t.Fatalf("mapeos not sorted by id: %d before %d", mapeos[i-1].MapeoID, mapeos[i].MapeoID)
		}
	}
}

func TestCreateAndPatchColumna(t *testing.T) {
	ts := newTestServer(t)

	body := `{"columna":{"nombre":"telefono","regex":"^\\d{10}$","bolCargar":true},"idUsuario":3}`
	resp, out := doRequest(t, ts, http.MethodPost, "/lineas/mapeos/1/columnas", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", resp.StatusCode, out)
	}
	var created domain.Columna
	if err := json.Unmarshal(out, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Nombre != "telefono" || !created.Cargar {
		t.Fatalf("created columna = %+v", created)
	}

	patch := fmt.Sprintf(`{"columna":{"tipo":{"id":%d}},"idUsuario":3}`, created.CatColumnaID)
	resp, out = doRequest(t, ts, http.MethodPatch, "/lineas/mapeos/columnas/desactivar", patch)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("patch status = %d, want 204: %s", resp.StatusCode, out)
	}

	resp, out = doRequest(t, ts, http.MethodGet, "/lineas/mapeos/1/columnas", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var columnas []domain.Columna
	if err := json.Unmarshal(out, &columnas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, c := range columnas {
		if c.CatColumnaID == created.CatColumnaID {
			found = true
			if c.Activo {
				t.Fatal("columna still active after desactivar")
			}
		}
	}
	if !found {
		t.Fatalf("columna %d not listed", created.CatColumnaID)
	}
}

func TestPatchColumnaRequiresTipoID(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doRequest(t, ts, http.MethodPatch, "/lineas/mapeos/columnas/activar", `{"columna":{},"idUsuario":3}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", resp.StatusCode, out)
	}
}

func TestColumnasCampanaRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doRequest(t, ts, http.MethodGet, "/lineas/0/campanas/0/mapeos/columnas", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d: %s", resp.StatusCode, out)
	}
	var before []domain.Columna
	if err := json.Unmarshal(out, &before); err != nil {
		t.Fatalf("decode: %v", err)
	}

	body := `{"idABCConfigMapeoCampana":4,"idABCCatColumna":0,"regex":"^[A-Z]+$","idUsuario":3}`
	resp, out = doRequest(t, ts, http.MethodPost, "/lineas/0/campanas/0/mapeos/columnas", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", resp.StatusCode, out)
	}
	var created domain.Columna
	if err := json.Unmarshal(out, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Regex != "^[A-Z]+$" {
		t.Fatalf("regex = %q", created.Regex)
	}

	resp, out = doRequest(t, ts, http.MethodGet, "/lineas/0/campanas/0/mapeos/columnas", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("relist status = %d", resp.StatusCode)
	}
	var after []domain.Columna
	if err := json.Unmarshal(out, &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("got %d campaign columnas, want %d", len(after), len(before)+1)
	}
}

func TestGetLineaNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doRequest(t, ts, http.MethodGet, "/lineas/99", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestBadJSONBody(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doRequest(t, ts, http.MethodPost, "/lineas/1/mapeos", `{"mapeo":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
