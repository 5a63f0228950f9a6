// Package api exposes the administration endpoint set over any backend
// implementation. The same routes serve the Postgres reference store and the
// in-memory mock; which one is behind them is decided once at composition.
package api

import (
	"log"
	"net/http"

	"github.com/abcconfig/mapeo-admin/internal/backend"
)

// Server holds the handler dependencies.
type Server struct {
	mapeos   backend.MapeoService
	columnas backend.ColumnaService
	logger   *log.Logger
}

// NewRouter builds the route table. exportHandler and importHandler are
// optional admin conveniences; pass nil to leave them unmounted.
func NewRouter(mapeos backend.MapeoService, columnas backend.ColumnaService, logger *log.Logger, exportHandler, importHandler http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{mapeos: mapeos, columnas: columnas, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /lineas", s.listLineas)
	mux.HandleFunc("GET /lineas/{lineaID}", s.getLinea)
	mux.HandleFunc("GET /lineas/{lineaID}/campanas", s.listCampanas)
	// GET /lineas/{lineaID}/campanas/{campanaID} and
	// GET /lineas/mapeos/{mapeoID}/columnas share the same four-segment
	// shape; ServeMux considers them conflicting, so one handler tells
	// them apart by the literal segments.
	mux.HandleFunc("GET /lineas/{seg1}/{seg2}/{seg3}", s.dispatchFourSegmentGet)

	mux.HandleFunc("GET /lineas/{lineaID}/mapeos", s.listMapeosByLinea)
	mux.HandleFunc("POST /lineas/{lineaID}/mapeos", s.createMapeoLinea)
	mux.HandleFunc("GET /lineas/{lineaID}/campanas/{campanaID}/mapeos", s.listMapeosByCampana)
	mux.HandleFunc("POST /lineas/{lineaID}/campanas/{campanaID}/mapeos", s.createMapeoCampana)
	mux.HandleFunc("PUT /lineas/mapeos", s.updateMapeo)
	mux.HandleFunc("PUT /lineas/campanas/mapeos", s.updateMapeo)
	mux.HandleFunc("DELETE /lineas/{lineaID}/mapeos/{mapeoID}", s.deleteMapeoLinea)
	mux.HandleFunc("DELETE /lineas/{lineaID}/campanas/{campanaID}/mapeos/{mapeoID}", s.deleteMapeoCampana)
	mux.HandleFunc("PATCH /lineas/mapeos/activar", s.patchMapeo(false, true))
	mux.HandleFunc("PATCH /lineas/mapeos/desactivar", s.patchMapeo(false, false))
	mux.HandleFunc("PATCH /lineas/campanas/mapeos/activar", s.patchMapeo(true, true))
	mux.HandleFunc("PATCH /lineas/campanas/mapeos/desactivar", s.patchMapeo(true, false))

	mux.HandleFunc("POST /lineas/mapeos/{mapeoID}/columnas", s.createColumna)
	mux.HandleFunc("PUT /lineas/mapeos/columnas", s.updateColumna)
	mux.HandleFunc("PATCH /lineas/mapeos/columnas/activar", s.patchColumna(false, true))
	mux.HandleFunc("PATCH /lineas/mapeos/columnas/desactivar", s.patchColumna(false, false))
	mux.HandleFunc("PATCH /lineas/campanas/mapeos/columnas/activar", s.patchColumna(true, true))
	mux.HandleFunc("PATCH /lineas/campanas/mapeos/columnas/desactivar", s.patchColumna(true, false))

	mux.HandleFunc("GET /lineas/0/campanas/0/mapeos/columnas", s.listColumnasCampana)
	mux.HandleFunc("POST /lineas/0/campanas/0/mapeos/columnas", s.createColumnaCampana)
	mux.HandleFunc("PUT /lineas/0/campanas/0/mapeos/columnas", s.updateColumnaCampana)

	if exportHandler != nil {
		mux.Handle("GET /export/mapeos", exportHandler)
	}
	if importHandler != nil {
		mux.Handle("POST /lineas/mapeos/{mapeoID}/columnas/importar", importHandler)
	}

	return mux
}
