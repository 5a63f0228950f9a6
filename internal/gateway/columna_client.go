package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// campaignColumnsPath is the global campaign-column family. The zeroed path
// parameters are the backend's own convention for "not filtered by line or
// campaña", preserved as-is.
const campaignColumnsPath = "/lineas/0/campanas/0/mapeos/columnas"

// ColumnasByMapeo lists the line-level columnas bound to one mapeo.
func (c *Client) ColumnasByMapeo(ctx context.Context, mapeoID int) ([]domain.Columna, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lineas/mapeos/%d/columnas", mapeoID), nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeColumnas(body)
}

// ColumnasCampana lists the globally shared campaign columnas.
func (c *Client) ColumnasCampana(ctx context.Context) ([]domain.Columna, error) {
	body, err := c.do(ctx, http.MethodGet, campaignColumnsPath, nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeColumnas(body)
}

// CreateColumna creates a line-level columna under a mapeo.
func (c *Client) CreateColumna(ctx context.Context, mapeoID int, payload domain.ColumnaPayload, actorID int) (domain.Columna, error) {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/lineas/mapeos/%d/columnas", mapeoID), map[string]any{
		"columna":   payload,
		"idUsuario": actorID,
	})
	if err != nil {
		return domain.Columna{}, err
	}
	return domain.DecodeColumna(body)
}

// CreateColumnaCampana creates a globally shared campaign columna through the
// distinct global-create endpoint.
func (c *Client) CreateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error) {
	body, err := c.do(ctx, http.MethodPost, campaignColumnsPath, map[string]any{
		"idABCConfigMapeoCampana": payload.MapeoConfigID,
		"idABCCatColumna":         payload.CatColumnaID,
		"regex":                   payload.Regex,
		"idUsuario":               actorID,
	})
	if err != nil {
		return domain.Columna{}, err
	}
	return domain.DecodeColumna(body)
}

// UpdateColumna updates a line-level columna's editable fields.
func (c *Client) UpdateColumna(ctx context.Context, update domain.ColumnaUpdate, actorID int) (domain.Columna, error) {
	body, err := c.do(ctx, http.MethodPut, "/lineas/mapeos/columnas", map[string]any{
		"columna": map[string]any{
			"idABCConfigMapeoLinea": update.MapeoID,
			"idABCCatColumna":       update.CatColumnaID,
			"nombre":                update.Nombre,
			"regex":                 update.Regex,
			"bolCargar":             update.Cargar,
			"bolModificar":          update.Modificar,
			"bolEnviar":             update.Enviar,
		},
		"idUsuario": actorID,
	})
	if err != nil {
		return domain.Columna{}, err
	}
	return domain.DecodeColumna(body)
}

// UpdateColumnaCampana updates a campaign columna's regex binding.
func (c *Client) UpdateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error) {
	body, err := c.do(ctx, http.MethodPut, campaignColumnsPath, map[string]any{
		"columna": map[string]any{
			"idABCConfigMapeoCampana": payload.MapeoConfigID,
			"idABCCatColumna":         payload.CatColumnaID,
			"regex":                   payload.Regex,
		},
		"idUsuario": actorID,
	})
	if err != nil {
		return domain.Columna{}, err
	}
	return domain.DecodeColumna(body)
}

// ActivateColumna sets a columna's active flag unconditionally.
func (c *Client) ActivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error {
	return c.patchColumna(ctx, catColumnaID, campaign, actorID, "activar")
}

// DeactivateColumna clears a columna's active flag unconditionally.
func (c *Client) DeactivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error {
	return c.patchColumna(ctx, catColumnaID, campaign, actorID, "desactivar")
}

func (c *Client) patchColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int, action string) error {
	path := "/lineas/mapeos/columnas/" + action
	if campaign {
		path = "/lineas/campanas/mapeos/columnas/" + action
	}
	// The backend expects the column id wrapped in a "tipo" object; this
	// indirection is its contract, not ours to flatten.
	_, err := c.do(ctx, http.MethodPatch, path, map[string]any{
		"columna":   map[string]any{"tipo": map[string]any{"id": catColumnaID}},
		"idUsuario": actorID,
	})
	return err
}
