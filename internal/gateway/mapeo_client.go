package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// Lineas lists the business-line catalog.
func (c *Client) Lineas(ctx context.Context) ([]domain.Linea, error) {
	body, err := c.do(ctx, http.MethodGet, "/lineas", nil)
	if err != nil {
		return nil, err
	}
	var lineas []domain.Linea
	if err := json.Unmarshal(body, &lineas); err != nil {
		return nil, fmt.Errorf("failed to decode lineas: %w", err)
	}
	return lineas, nil
}

// Linea looks up one business line.
func (c *Client) Linea(ctx context.Context, lineaID int) (domain.Linea, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lineas/%d", lineaID), nil)
	if err != nil {
		return domain.Linea{}, err
	}
	var linea domain.Linea
	if err := json.Unmarshal(body, &linea); err != nil {
		return domain.Linea{}, fmt.Errorf("failed to decode linea: %w", err)
	}
	return linea, nil
}

// CampanasByLinea lists the campaigns under a business line.
func (c *Client) CampanasByLinea(ctx context.Context, lineaID int) ([]domain.Campana, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lineas/%d/campanas", lineaID), nil)
	if err != nil {
		return nil, err
	}
	var campanas []domain.Campana
	if err := json.Unmarshal(body, &campanas); err != nil {
		return nil, fmt.Errorf("failed to decode campañas: %w", err)
	}
	return campanas, nil
}

// Campana looks up one campaign.
func (c *Client) Campana(ctx context.Context, lineaID, campanaID int) (domain.Campana, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lineas/%d/campanas/%d", lineaID, campanaID), nil)
	if err != nil {
		return domain.Campana{}, err
	}
	var campana domain.Campana
	if err := json.Unmarshal(body, &campana); err != nil {
		return domain.Campana{}, fmt.Errorf("failed to decode campaña: %w", err)
	}
	return campana, nil
}

// MapeosByLinea lists the line-scoped mapeos of a business line.
func (c *Client) MapeosByLinea(ctx context.Context, lineaID int) ([]domain.Mapeo, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lineas/%d/mapeos", lineaID), nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeMapeos(body)
}

// MapeosByCampana lists the mapeos of one campaign partition.
func (c *Client) MapeosByCampana(ctx context.Context, lineaID, campanaID int) ([]domain.Mapeo, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lineas/%d/campanas/%d/mapeos", lineaID, campanaID), nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeMapeos(body)
}

// AllMapeos lists every mapeo across lines. The backend treats line 0 as the
// unscoped sentinel.
func (c *Client) AllMapeos(ctx context.Context) ([]domain.Mapeo, error) {
	body, err := c.do(ctx, http.MethodGet, "/lineas/0/mapeos", nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeMapeos(body)
}

// CreateMapeo creates a mapeo in the line partition, or in the campaign
// partition when campanaID is non-nil.
func (c *Client) CreateMapeo(ctx context.Context, lineaID int, campanaID *int, payload domain.MapeoPayload, actorID int) (domain.Mapeo, error) {
	path := fmt.Sprintf("/lineas/%d/mapeos", lineaID)
	if campanaID != nil {
		path = fmt.Sprintf("/lineas/%d/campanas/%d/mapeos", lineaID, *campanaID)
	}
	body, err := c.do(ctx, http.MethodPost, path, map[string]any{
		"mapeo":     payload,
		"idUsuario": actorID,
	})
	if err != nil {
		return domain.Mapeo{}, err
	}
	return domain.DecodeMapeo(body)
}

// UpdateMapeo updates a mapeo's editable fields. The nested record is
// mirrored under both the "mapeo" and "mapeos" keys; the backend has expected
// either across its API revisions.
func (c *Client) UpdateMapeo(ctx context.Context, update domain.MapeoUpdate, actorID int) (domain.Mapeo, error) {
	nested := map[string]any{
		"id":          update.MapeoID,
		"id_linea":    update.LineaID,
		"nombre":      update.Nombre,
		"descripcion": update.Descripcion,
	}
	path := "/lineas/mapeos"
	if update.CampanaID != nil {
		nested["id_campana"] = *update.CampanaID
		path = "/lineas/campanas/mapeos"
	}
	body, err := c.do(ctx, http.MethodPut, path, map[string]any{
		"mapeo":     nested,
		"mapeos":    nested,
		"idUsuario": actorID,
	})
	if err != nil {
		return domain.Mapeo{}, err
	}
	return domain.DecodeMapeo(body)
}

// DeleteMapeo removes a mapeo from its partition.
func (c *Client) DeleteMapeo(ctx context.Context, lineaID int, campanaID *int, mapeoID int) error {
	path := fmt.Sprintf("/lineas/%d/mapeos/%d", lineaID, mapeoID)
	if campanaID != nil {
		path = fmt.Sprintf("/lineas/%d/campanas/%d/mapeos/%d", lineaID, *campanaID, mapeoID)
	}
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// ActivateMapeo sets the active flag unconditionally.
func (c *Client) ActivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error) {
	return c.patchMapeo(ctx, mapeoID, campaign, actorID, "activar")
}

// DeactivateMapeo clears the active flag unconditionally.
func (c *Client) DeactivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error) {
	return c.patchMapeo(ctx, mapeoID, campaign, actorID, "desactivar")
}

func (c *Client) patchMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int, action string) (domain.Mapeo, error) {
	path := "/lineas/mapeos/" + action
	if campaign {
		path = "/lineas/campanas/mapeos/" + action
	}
	body, err := c.do(ctx, http.MethodPatch, path, map[string]any{
		"mapeo":     map[string]any{"id": mapeoID},
		"idUsuario": actorID,
	})
	if err != nil {
		return domain.Mapeo{}, err
	}
	return domain.DecodeMapeo(body)
}
