package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/abcconfig/mapeo-admin/internal/auth"
)

// Handler exposes ingestion as an upload endpoint. It expects the target
// mapeo id as the {mapeoID} path segment.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mapeoID, err := strconv.Atoi(r.PathValue("mapeoID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid mapeo id: %v", err), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	actorID := 0
	if raw := strings.TrimSpace(r.FormValue("idUsuario")); raw != "" {
		actorID, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid idUsuario: %v", err), http.StatusBadRequest)
			return
		}
	}
	if actorID <= 0 {
		if headerActor, ok := auth.ActorIDFromRequest(r); ok {
			actorID = headerActor
		}
	}
	if actorID <= 0 {
		http.Error(w, "idUsuario is required", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	req := Request{
		MapeoID:  mapeoID,
		ActorID:  actorID,
		FileName: header.Filename,
		Data:     bytes.NewReader(data),
	}

	summary, err := h.service.Ingest(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
