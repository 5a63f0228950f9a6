package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abcconfig/mapeo-admin/internal/backend"
	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// columnaRepository implements backend.ColumnaService over Postgres
type columnaRepository struct {
	pool *pgxpool.Pool
}

// NewColumnaRepository creates a new columna repository
func NewColumnaRepository(pool *pgxpool.Pool) backend.ColumnaService {
	return &columnaRepository{pool: pool}
}

const columnaColumns = `cat_columna_id, mapeo_id, linea_id, campana_id, usuario_id, nombre, regex,
	activo, cargar, modificar, enviar, dictaminacion, fec_creacion, usuario_ult_modificacion, fec_ult_modificacion`

func scanColumna(row pgx.Row) (domain.Columna, error) {
	var (
		c        domain.Columna
		campana  pgtype.Int4
		dict     pgtype.Bool
		creacion pgtype.Timestamptz
		modifBy  pgtype.Int4
		modifAt  pgtype.Timestamptz
	)
	err := row.Scan(&c.CatColumnaID, &c.MapeoID, &c.LineaID, &campana, &c.UsuarioID, &c.Nombre, &c.Regex,
		&c.Activo, &c.Cargar, &c.Modificar, &c.Enviar, &dict, &creacion, &modifBy, &modifAt)
	if err != nil {
		return domain.Columna{}, err
	}
	if campana.Valid {
		v := int(campana.Int32)
		c.CampanaID = &v
	}
	if dict.Valid {
		c.Dictaminacion = &dict.Bool
	}
	c.FechaCreacion = formatTime(creacion)
	c.FechaUltModificacion = formatTime(modifAt)
	if modifBy.Valid {
		c.UsuarioUltModificacion = int(modifBy.Int32)
	}
	return c, nil
}

// ColumnasByMapeo retrieves the line-level columnas of one mapeo
func (r *columnaRepository) ColumnasByMapeo(ctx context.Context, mapeoID int) ([]domain.Columna, error) {
	return r.queryColumnas(ctx,
		`SELECT `+columnaColumns+` FROM columnas WHERE mapeo_id = $1 AND campana_id IS NULL ORDER BY cat_columna_id`,
		mapeoID)
}

// ColumnasCampana retrieves the globally shared campaign columnas
func (r *columnaRepository) ColumnasCampana(ctx context.Context) ([]domain.Columna, error) {
	return r.queryColumnas(ctx,
		`SELECT `+columnaColumns+` FROM columnas WHERE campana_id IS NOT NULL ORDER BY cat_columna_id`)
}

func (r *columnaRepository) queryColumnas(ctx context.Context, sql string, args ...any) ([]domain.Columna, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list columnas: %w", err)
	}
	defer rows.Close()

	var columnas []domain.Columna
	for rows.Next() {
		c, err := scanColumna(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan columna: %w", err)
		}
		columnas = append(columnas, c)
	}
	return columnas, rows.Err()
}

// CreateColumna inserts a line-level columna under one mapeo. The owning
// mapeo must exist; its line scope is inherited.
func (r *columnaRepository) CreateColumna(ctx context.Context, mapeoID int, payload domain.ColumnaPayload, actorID int) (domain.Columna, error) {
	var lineaID int
	err := r.pool.QueryRow(ctx, `SELECT linea_id FROM mapeos WHERE id = $1`, mapeoID).Scan(&lineaID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Columna{}, fmt.Errorf("mapeo %d: %w", mapeoID, domain.ErrScopeNotFound)
	}
	if err != nil {
		return domain.Columna{}, fmt.Errorf("failed to resolve owning mapeo: %w", err)
	}

	c, err := scanColumna(r.pool.QueryRow(ctx,
		`INSERT INTO columnas (mapeo_id, linea_id, usuario_id, nombre, regex, cargar, modificar, enviar)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columnaColumns,
		mapeoID, lineaID, actorID, payload.Nombre, payload.Regex, payload.Cargar, payload.Modificar, payload.Enviar))
	if err != nil {
		return domain.Columna{}, fmt.Errorf("failed to create columna: %w", err)
	}
	return c, nil
}

// CreateColumnaCampana inserts a globally shared campaign columna bound to a
// campaign mapeo configuration.
func (r *columnaRepository) CreateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error) {
	var lineaID int
	var campanaID pgtype.Int4
	err := r.pool.QueryRow(ctx, `SELECT linea_id, campana_id FROM mapeos WHERE id = $1`, payload.MapeoConfigID).
		Scan(&lineaID, &campanaID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Columna{}, fmt.Errorf("mapeo %d: %w", payload.MapeoConfigID, domain.ErrScopeNotFound)
	}
	if err != nil {
		return domain.Columna{}, fmt.Errorf("failed to resolve campaign mapeo: %w", err)
	}
	if !campanaID.Valid {
		// a campaign columna must hang off a campaign-scoped mapeo
		return domain.Columna{}, fmt.Errorf("mapeo %d is line-scoped: %w", payload.MapeoConfigID, domain.ErrScopeNotFound)
	}

	c, err := scanColumna(r.pool.QueryRow(ctx,
		`INSERT INTO columnas (mapeo_id, linea_id, campana_id, usuario_id, regex)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+columnaColumns,
		payload.MapeoConfigID, lineaID, campanaID, actorID, payload.Regex))
	if err != nil {
		return domain.Columna{}, fmt.Errorf("failed to create campaign columna: %w", err)
	}
	return c, nil
}

// UpdateColumna updates the editable fields of a line-level columna
func (r *columnaRepository) UpdateColumna(ctx context.Context, update domain.ColumnaUpdate, actorID int) (domain.Columna, error) {
	c, err := scanColumna(r.pool.QueryRow(ctx,
		`UPDATE columnas SET nombre = $1, regex = $2, cargar = $3, modificar = $4, enviar = $5,
		        usuario_ult_modificacion = $6, fec_ult_modificacion = now()
		 WHERE cat_columna_id = $7 AND mapeo_id = $8 AND campana_id IS NULL
		 RETURNING `+columnaColumns,
		update.Nombre, update.Regex, update.Cargar, update.Modificar, update.Enviar,
		actorID, update.CatColumnaID, update.MapeoID))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if scanErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM columnas WHERE mapeo_id = $1 AND campana_id IS NULL)`,
			update.MapeoID).Scan(&exists); scanErr != nil {
			return domain.Columna{}, fmt.Errorf("failed to resolve not-found cause: %w", scanErr)
		}
		if !exists {
			return domain.Columna{}, fmt.Errorf("mapeo %d: %w", update.MapeoID, domain.ErrScopeNotFound)
		}
		return domain.Columna{}, fmt.Errorf("columna %d: %w", update.CatColumnaID, domain.ErrRecordNotFound)
	}
	if err != nil {
		return domain.Columna{}, fmt.Errorf("failed to update columna: %w", err)
	}
	return c, nil
}

// UpdateColumnaCampana rebinds the regex of a campaign columna
func (r *columnaRepository) UpdateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error) {
	c, err := scanColumna(r.pool.QueryRow(ctx,
		`UPDATE columnas SET regex = $1, mapeo_id = $2, usuario_ult_modificacion = $3, fec_ult_modificacion = now()
		 WHERE cat_columna_id = $4 AND campana_id IS NOT NULL
		 RETURNING `+columnaColumns,
		payload.Regex, payload.MapeoConfigID, actorID, payload.CatColumnaID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Columna{}, fmt.Errorf("columna %d: %w", payload.CatColumnaID, domain.ErrRecordNotFound)
	}
	if err != nil {
		return domain.Columna{}, fmt.Errorf("failed to update campaign columna: %w", err)
	}
	return c, nil
}

// ActivateColumna sets a columna's active flag unconditionally
func (r *columnaRepository) ActivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error {
	return r.setActive(ctx, catColumnaID, campaign, actorID, true)
}

// DeactivateColumna clears a columna's active flag unconditionally
func (r *columnaRepository) DeactivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error {
	return r.setActive(ctx, catColumnaID, campaign, actorID, false)
}

func (r *columnaRepository) setActive(ctx context.Context, catColumnaID int, campaign bool, actorID int, active bool) error {
	scopeClause := `campana_id IS NULL`
	if campaign {
		scopeClause = `campana_id IS NOT NULL`
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE columnas SET activo = $1, usuario_ult_modificacion = $2, fec_ult_modificacion = now()
		 WHERE cat_columna_id = $3 AND `+scopeClause,
		active, actorID, catColumnaID)
	if err != nil {
		return fmt.Errorf("failed to patch columna: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columna %d: %w", catColumnaID, domain.ErrRecordNotFound)
	}
	return nil
}
