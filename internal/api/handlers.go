package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/abcconfig/mapeo-admin/internal/auth"
	"github.com/abcconfig/mapeo-admin/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Printf("[API] request failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// actorID resolves the acting user from the request body's idUsuario field or
// the X-Usuario-Id header. A mutation without an actor is rejected; there is
// no default identity.
func actorID(r *http.Request, bodyActor int) (int, bool) {
	if bodyActor > 0 {
		return bodyActor, true
	}
	return auth.ActorIDFromRequest(r)
}

func (s *Server) listLineas(w http.ResponseWriter, r *http.Request) {
	lineas, err := s.mapeos.Lineas(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lineas)
}

func (s *Server) getLinea(w http.ResponseWriter, r *http.Request) {
	lineaID, err := pathInt(r, "lineaID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	linea, err := s.mapeos.Linea(r.Context(), lineaID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, linea)
}

func (s *Server) listCampanas(w http.ResponseWriter, r *http.Request) {
	lineaID, err := pathInt(r, "lineaID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	campanas, err := s.mapeos.CampanasByLinea(r.Context(), lineaID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campanas)
}

// dispatchFourSegmentGet tells apart the two four-segment GET shapes:
// /lineas/{lineaID}/campanas/{campanaID} and /lineas/mapeos/{mapeoID}/columnas.
func (s *Server) dispatchFourSegmentGet(w http.ResponseWriter, r *http.Request) {
	seg1, seg2, seg3 := r.PathValue("seg1"), r.PathValue("seg2"), r.PathValue("seg3")

	if seg1 == "mapeos" && seg3 == "columnas" {
		mapeoID, err := strconv.Atoi(seg2)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid mapeoID %q", seg2)})
			return
		}
		s.listColumnasByMapeo(w, r, mapeoID)
		return
	}

	if seg2 == "campanas" {
		lineaID, err := strconv.Atoi(seg1)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid lineaID %q", seg1)})
			return
		}
		campanaID, err := strconv.Atoi(seg3)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid campanaID %q", seg3)})
			return
		}
		campana, err := s.mapeos.Campana(r.Context(), lineaID, campanaID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, campana)
		return
	}

	http.NotFound(w, r)
}

func (s *Server) listMapeosByLinea(w http.ResponseWriter, r *http.Request) {
	lineaID, err := pathInt(r, "lineaID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	mapeos, err := s.mapeos.MapeosByLinea(r.Context(), lineaID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapeos)
}

func (s *Server) listMapeosByCampana(w http.ResponseWriter, r *http.Request) {
	lineaID, err := pathInt(r, "lineaID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	campanaID, err := pathInt(r, "campanaID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	mapeos, err := s.mapeos.MapeosByCampana(r.Context(), lineaID, campanaID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapeos)
}

// createRequest is the create wire shape: the editable fields under "mapeo"
// plus the acting user.
type createRequest struct {
	Mapeo     domain.MapeoPayload `json:"mapeo"`
	IDUsuario int                 `json:"idUsuario"`
}

func (s *Server) createMapeoLinea(w http.ResponseWriter, r *http.Request) {
	s.createMapeo(w, r, false)
}

func (s *Server) createMapeoCampana(w http.ResponseWriter, r *http.Request) {
	s.createMapeo(w, r, true)
}

func (s *Server) createMapeo(w http.ResponseWriter, r *http.Request, campaign bool) {
	lineaID, err := pathInt(r, "lineaID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var campanaID *int
	if campaign {
		id, err := pathInt(r, "campanaID")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		campanaID = &id
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	actor, ok := actorID(r, req.IDUsuario)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
		return
	}

	created, err := s.mapeos.CreateMapeo(r.Context(), lineaID, campanaID, req.Mapeo, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updateRequest accepts the nested record under either historical key.
type updateRequest struct {
	Mapeo     map[string]any `json:"mapeo"`
	Mapeos    map[string]any `json:"mapeos"`
	IDUsuario int            `json:"idUsuario"`
}

func (s *Server) updateMapeo(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	nested := req.Mapeo
	if nested == nil {
		nested = req.Mapeos
	}
	if nested == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mapeo is required"})
		return
	}
	actor, ok := actorID(r, req.IDUsuario)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
		return
	}

	m := domain.NormalizeMapeo(nested)
	updated, err := s.mapeos.UpdateMapeo(r.Context(), domain.MapeoUpdate{
		MapeoID:     m.MapeoID,
		LineaID:     m.LineaID,
		CampanaID:   m.CampanaID,
		Nombre:      m.Nombre,
		Descripcion: m.Descripcion,
	}, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteMapeoLinea(w http.ResponseWriter, r *http.Request) {
	s.deleteMapeo(w, r, false)
}

func (s *Server) deleteMapeoCampana(w http.ResponseWriter, r *http.Request) {
	s.deleteMapeo(w, r, true)
}

func (s *Server) deleteMapeo(w http.ResponseWriter, r *http.Request, campaign bool) {
	lineaID, err := pathInt(r, "lineaID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	mapeoID, err := pathInt(r, "mapeoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var campanaID *int
	if campaign {
		id, err := pathInt(r, "campanaID")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		campanaID = &id
	}
	if err := s.mapeos.DeleteMapeo(r.Context(), lineaID, campanaID, mapeoID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) patchMapeo(campaign, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.Mapeo == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mapeo is required"})
			return
		}
		actor, ok := actorID(r, req.IDUsuario)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
			return
		}
		mapeoID := domain.NormalizeMapeo(req.Mapeo).MapeoID

		var (
			patched domain.Mapeo
			err     error
		)
		if activate {
			patched, err = s.mapeos.ActivateMapeo(r.Context(), mapeoID, campaign, actor)
		} else {
			patched, err = s.mapeos.DeactivateMapeo(r.Context(), mapeoID, campaign, actor)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patched)
	}
}

func (s *Server) listColumnasByMapeo(w http.ResponseWriter, r *http.Request, mapeoID int) {
	columnas, err := s.columnas.ColumnasByMapeo(r.Context(), mapeoID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columnas)
}

func (s *Server) listColumnasCampana(w http.ResponseWriter, r *http.Request) {
	columnas, err := s.columnas.ColumnasCampana(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columnas)
}

// columnaRequest is the line-level columna create/update wire shape.
type columnaRequest struct {
	Columna   map[string]any `json:"columna"`
	IDUsuario int            `json:"idUsuario"`
}

func (s *Server) createColumna(w http.ResponseWriter, r *http.Request) {
	mapeoID, err := pathInt(r, "mapeoID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req columnaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Columna == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "columna is required"})
		return
	}
	actor, ok := actorID(r, req.IDUsuario)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
		return
	}

	c := domain.NormalizeColumna(req.Columna)
	created, err := s.columnas.CreateColumna(r.Context(), mapeoID, domain.ColumnaPayload{
		Nombre:    c.Nombre,
		Regex:     c.Regex,
		Cargar:    c.Cargar,
		Modificar: c.Modificar,
		Enviar:    c.Enviar,
	}, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateColumna(w http.ResponseWriter, r *http.Request) {
	var req columnaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Columna == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "columna is required"})
		return
	}
	actor, ok := actorID(r, req.IDUsuario)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
		return
	}

	c := domain.NormalizeColumna(req.Columna)
	updated, err := s.columnas.UpdateColumna(r.Context(), domain.ColumnaUpdate{
		MapeoID:      c.MapeoID,
		CatColumnaID: c.CatColumnaID,
		Nombre:       c.Nombre,
		Regex:        c.Regex,
		Cargar:       c.Cargar,
		Modificar:    c.Modificar,
		Enviar:       c.Enviar,
	}, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// columnaCampanaRequest is the global campaign-column wire shape; create uses
// the flat form, update wraps the same fields under "columna".
type columnaCampanaRequest struct {
	MapeoConfigID int            `json:"idABCConfigMapeoCampana"`
	CatColumnaID  int            `json:"idABCCatColumna"`
	Regex         string         `json:"regex"`
	Columna       map[string]any `json:"columna"`
	IDUsuario     int            `json:"idUsuario"`
}

func (req *columnaCampanaRequest) payload() domain.ColumnaCampanaPayload {
	p := domain.ColumnaCampanaPayload{
		MapeoConfigID: req.MapeoConfigID,
		CatColumnaID:  req.CatColumnaID,
		Regex:         req.Regex,
	}
	if req.Columna != nil {
		c := domain.NormalizeColumna(req.Columna)
		p.CatColumnaID = c.CatColumnaID
		p.Regex = c.Regex
		if raw, ok := req.Columna["idABCConfigMapeoCampana"]; ok {
			if f, ok := raw.(float64); ok {
				p.MapeoConfigID = int(f)
			}
		}
	}
	return p
}

func (s *Server) createColumnaCampana(w http.ResponseWriter, r *http.Request) {
	var req columnaCampanaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	actor, ok := actorID(r, req.IDUsuario)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
		return
	}
	created, err := s.columnas.CreateColumnaCampana(r.Context(), req.payload(), actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateColumnaCampana(w http.ResponseWriter, r *http.Request) {
	var req columnaCampanaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	actor, ok := actorID(r, req.IDUsuario)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
		return
	}
	updated, err := s.columnas.UpdateColumnaCampana(r.Context(), req.payload(), actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// columnaPatchRequest carries the backend's "tipo" wrapper around the column
// id on activation toggles.
type columnaPatchRequest struct {
	Columna struct {
		Tipo struct {
			ID int `json:"id"`
		} `json:"tipo"`
	} `json:"columna"`
	IDUsuario int `json:"idUsuario"`
}

func (s *Server) patchColumna(campaign, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req columnaPatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.Columna.Tipo.ID == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "columna.tipo.id is required"})
			return
		}
		actor, ok := actorID(r, req.IDUsuario)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idUsuario is required"})
			return
		}

		var err error
		if activate {
			err = s.columnas.ActivateColumna(r.Context(), req.Columna.Tipo.ID, campaign, actor)
		} else {
			err = s.columnas.DeactivateColumna(r.Context(), req.Columna.Tipo.ID, campaign, actor)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
