// Package backend defines the service contract shared by every backend
// implementation: the REST gateway client, the in-memory mock store and the
// Postgres reference store. Callers compose against these interfaces once at
// startup and never branch on the implementation afterwards.
package backend

import (
	"context"

	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// MapeoService covers catalog lookups and every mapeo operation. Mutations
// take an explicit actorID; there is no fallback identity.
type MapeoService interface {
	Lineas(ctx context.Context) ([]domain.Linea, error)
	Linea(ctx context.Context, lineaID int) (domain.Linea, error)
	CampanasByLinea(ctx context.Context, lineaID int) ([]domain.Campana, error)
	Campana(ctx context.Context, lineaID, campanaID int) (domain.Campana, error)

	MapeosByLinea(ctx context.Context, lineaID int) ([]domain.Mapeo, error)
	MapeosByCampana(ctx context.Context, lineaID, campanaID int) ([]domain.Mapeo, error)
	AllMapeos(ctx context.Context) ([]domain.Mapeo, error)

	// CreateMapeo routes to the campaign-create endpoint when campanaID is
	// non-nil, else the line-create endpoint.
	CreateMapeo(ctx context.Context, lineaID int, campanaID *int, payload domain.MapeoPayload, actorID int) (domain.Mapeo, error)
	// UpdateMapeo routes on update.CampanaID the same way.
	UpdateMapeo(ctx context.Context, update domain.MapeoUpdate, actorID int) (domain.Mapeo, error)
	DeleteMapeo(ctx context.Context, lineaID int, campanaID *int, mapeoID int) error

	ActivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error)
	DeactivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error)
}

// ColumnaService covers line-level columnas (bound to one mapeo) and the
// globally shared campaign columnas.
type ColumnaService interface {
	ColumnasByMapeo(ctx context.Context, mapeoID int) ([]domain.Columna, error)
	ColumnasCampana(ctx context.Context) ([]domain.Columna, error)

	CreateColumna(ctx context.Context, mapeoID int, payload domain.ColumnaPayload, actorID int) (domain.Columna, error)
	CreateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error)
	UpdateColumna(ctx context.Context, update domain.ColumnaUpdate, actorID int) (domain.Columna, error)
	UpdateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error)

	ActivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error
	DeactivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error
}

// ToggleMapeo reads the record's current state and inverts it through the
// matching absolute operation. Explicit Activate/Deactivate stay available
// for callers that want a target state instead of a flip.
func ToggleMapeo(ctx context.Context, svc MapeoService, m domain.Mapeo, actorID int) (domain.Mapeo, error) {
	if m.Activo {
		return svc.DeactivateMapeo(ctx, m.MapeoID, m.CampaignScoped(), actorID)
	}
	return svc.ActivateMapeo(ctx, m.MapeoID, m.CampaignScoped(), actorID)
}

// ToggleColumna mirrors ToggleMapeo for columnas.
func ToggleColumna(ctx context.Context, svc ColumnaService, c domain.Columna, actorID int) error {
	if c.Activo {
		return svc.DeactivateColumna(ctx, c.CatColumnaID, c.CampaignScoped(), actorID)
	}
	return svc.ActivateColumna(ctx, c.CatColumnaID, c.CampaignScoped(), actorID)
}
