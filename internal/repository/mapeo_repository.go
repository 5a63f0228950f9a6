// Package repository implements the backend service contract over Postgres.
// It is the reference server-side store the gateway client integrates
// against; the mock store mirrors its observable behavior.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abcconfig/mapeo-admin/internal/backend"
	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// mapeoRepository implements backend.MapeoService over Postgres
type mapeoRepository struct {
	pool *pgxpool.Pool
}

// NewMapeoRepository creates a new mapeo repository
func NewMapeoRepository(pool *pgxpool.Pool) backend.MapeoService {
	return &mapeoRepository{pool: pool}
}

const mapeoColumns = `id, linea_id, campana_id, usuario_id, nombre, descripcion, activo,
	dictaminacion, fec_creacion, usuario_ult_modificacion, fec_ult_modificacion`

func scanMapeo(row pgx.Row) (domain.Mapeo, error) {
	var (
		m        domain.Mapeo
		campana  pgtype.Int4
		dict     pgtype.Bool
		creacion pgtype.Timestamptz
		modifBy  pgtype.Int4
		modifAt  pgtype.Timestamptz
	)
	err := row.Scan(&m.MapeoID, &m.LineaID, &campana, &m.UsuarioID, &m.Nombre, &m.Descripcion,
		&m.Activo, &dict, &creacion, &modifBy, &modifAt)
	if err != nil {
		return domain.Mapeo{}, err
	}
	if campana.Valid {
		v := int(campana.Int32)
		m.CampanaID = &v
	}
	if dict.Valid {
		m.Dictaminacion = &dict.Bool
	}
	m.FechaCreacion = formatTime(creacion)
	m.FechaUltModificacion = formatTime(modifAt)
	if modifBy.Valid {
		m.UsuarioUltModificacion = int(modifBy.Int32)
	}
	return m, nil
}

func formatTime(t pgtype.Timestamptz) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}

// Lineas retrieves the business-line catalog
func (r *mapeoRepository) Lineas(ctx context.Context) ([]domain.Linea, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nombre, descripcion, activo FROM lineas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineas: %w", err)
	}
	defer rows.Close()

	var lineas []domain.Linea
	for rows.Next() {
		var l domain.Linea
		if err := rows.Scan(&l.ID, &l.Nombre, &l.Descripcion, &l.Activo); err != nil {
			return nil, fmt.Errorf("failed to scan linea: %w", err)
		}
		lineas = append(lineas, l)
	}
	return lineas, rows.Err()
}

// Linea retrieves one business line by id
func (r *mapeoRepository) Linea(ctx context.Context, lineaID int) (domain.Linea, error) {
	var l domain.Linea
	err := r.pool.QueryRow(ctx,
		`SELECT id, nombre, descripcion, activo FROM lineas WHERE id = $1`, lineaID,
	).Scan(&l.ID, &l.Nombre, &l.Descripcion, &l.Activo)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Linea{}, fmt.Errorf("linea %d: %w", lineaID, domain.ErrRecordNotFound)
	}
	if err != nil {
		return domain.Linea{}, fmt.Errorf("failed to get linea: %w", err)
	}
	return l, nil
}

// CampanasByLinea retrieves the campaigns of one business line
func (r *mapeoRepository) CampanasByLinea(ctx context.Context, lineaID int) ([]domain.Campana, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, linea_id, nombre, descripcion, activo FROM campanas WHERE linea_id = $1 ORDER BY id`, lineaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campañas: %w", err)
	}
	defer rows.Close()

	var campanas []domain.Campana
	for rows.Next() {
		var c domain.Campana
		if err := rows.Scan(&c.ID, &c.LineaID, &c.Nombre, &c.Descripcion, &c.Activo); err != nil {
			return nil, fmt.Errorf("failed to scan campaña: %w", err)
		}
		campanas = append(campanas, c)
	}
	return campanas, rows.Err()
}

// Campana retrieves one campaign by id within a business line
func (r *mapeoRepository) Campana(ctx context.Context, lineaID, campanaID int) (domain.Campana, error) {
	var c domain.Campana
	err := r.pool.QueryRow(ctx,
		`SELECT id, linea_id, nombre, descripcion, activo FROM campanas WHERE linea_id = $1 AND id = $2`,
		lineaID, campanaID,
	).Scan(&c.ID, &c.LineaID, &c.Nombre, &c.Descripcion, &c.Activo)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Campana{}, fmt.Errorf("campaña %d: %w", campanaID, domain.ErrRecordNotFound)
	}
	if err != nil {
		return domain.Campana{}, fmt.Errorf("failed to get campaña: %w", err)
	}
	return c, nil
}

// MapeosByLinea retrieves the line-scoped mapeos of one business line. Line 0
// is the unscoped sentinel.
func (r *mapeoRepository) MapeosByLinea(ctx context.Context, lineaID int) ([]domain.Mapeo, error) {
	if lineaID == 0 {
		return r.AllMapeos(ctx)
	}
	return r.queryMapeos(ctx,
		`SELECT `+mapeoColumns+` FROM mapeos WHERE linea_id = $1 AND campana_id IS NULL ORDER BY id`, lineaID)
}

// MapeosByCampana retrieves the mapeos of one line+campaña partition
func (r *mapeoRepository) MapeosByCampana(ctx context.Context, lineaID, campanaID int) ([]domain.Mapeo, error) {
	return r.queryMapeos(ctx,
		`SELECT `+mapeoColumns+` FROM mapeos WHERE linea_id = $1 AND campana_id = $2 ORDER BY id`,
		lineaID, campanaID)
}

// AllMapeos retrieves every mapeo across lines and campaigns
func (r *mapeoRepository) AllMapeos(ctx context.Context) ([]domain.Mapeo, error) {
	return r.queryMapeos(ctx, `SELECT `+mapeoColumns+` FROM mapeos ORDER BY id`)
}

func (r *mapeoRepository) queryMapeos(ctx context.Context, sql string, args ...any) ([]domain.Mapeo, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mapeos: %w", err)
	}
	defer rows.Close()

	var mapeos []domain.Mapeo
	for rows.Next() {
		m, err := scanMapeo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapeo: %w", err)
		}
		mapeos = append(mapeos, m)
	}
	return mapeos, rows.Err()
}

// CreateMapeo inserts a new mapeo into its partition
func (r *mapeoRepository) CreateMapeo(ctx context.Context, lineaID int, campanaID *int, payload domain.MapeoPayload, actorID int) (domain.Mapeo, error) {
	campana := pgtype.Int4{}
	if campanaID != nil {
		campana = pgtype.Int4{Int32: int32(*campanaID), Valid: true}
	}
	m, err := scanMapeo(r.pool.QueryRow(ctx,
		`INSERT INTO mapeos (linea_id, campana_id, usuario_id, nombre, descripcion)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+mapeoColumns,
		lineaID, campana, actorID, payload.Nombre, payload.Descripcion))
	if err != nil {
		return domain.Mapeo{}, fmt.Errorf("failed to create mapeo: %w", err)
	}
	return m, nil
}

// UpdateMapeo updates the editable fields of one mapeo. A missing partition
// and a missing record surface as distinct NotFound causes.
func (r *mapeoRepository) UpdateMapeo(ctx context.Context, update domain.MapeoUpdate, actorID int) (domain.Mapeo, error) {
	scopeClause := `campana_id IS NULL`
	args := []any{update.Nombre, update.Descripcion, actorID, update.MapeoID, update.LineaID}
	if update.CampanaID != nil {
		scopeClause = `campana_id = $6`
		args = append(args, *update.CampanaID)
	}
	m, err := scanMapeo(r.pool.QueryRow(ctx,
		`UPDATE mapeos SET nombre = $1, descripcion = $2, usuario_ult_modificacion = $3, fec_ult_modificacion = now()
		 WHERE id = $4 AND linea_id = $5 AND `+scopeClause+`
		 RETURNING `+mapeoColumns, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Mapeo{}, r.notFoundCause(ctx, update.LineaID, update.CampanaID, update.MapeoID)
	}
	if err != nil {
		return domain.Mapeo{}, fmt.Errorf("failed to update mapeo: %w", err)
	}
	return m, nil
}

// notFoundCause distinguishes an empty partition from an unknown id inside an
// existing partition, matching the mock backend's two failure causes.
func (r *mapeoRepository) notFoundCause(ctx context.Context, lineaID int, campanaID *int, mapeoID int) error {
	var exists bool
	var err error
	if campanaID != nil {
		err = r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM mapeos WHERE linea_id = $1 AND campana_id = $2)`,
			lineaID, *campanaID).Scan(&exists)
	} else {
		err = r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM mapeos WHERE linea_id = $1 AND campana_id IS NULL)`,
			lineaID).Scan(&exists)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve not-found cause: %w", err)
	}
	if !exists {
		return fmt.Errorf("linea %d: %w", lineaID, domain.ErrScopeNotFound)
	}
	return fmt.Errorf("mapeo %d: %w", mapeoID, domain.ErrRecordNotFound)
}

// DeleteMapeo removes one mapeo. An absent id is a silent no-op.
func (r *mapeoRepository) DeleteMapeo(ctx context.Context, lineaID int, campanaID *int, mapeoID int) error {
	var err error
	if campanaID != nil {
		_, err = r.pool.Exec(ctx,
			`DELETE FROM mapeos WHERE id = $1 AND linea_id = $2 AND campana_id = $3`,
			mapeoID, lineaID, *campanaID)
	} else {
		_, err = r.pool.Exec(ctx,
			`DELETE FROM mapeos WHERE id = $1 AND linea_id = $2 AND campana_id IS NULL`,
			mapeoID, lineaID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete mapeo: %w", err)
	}
	return nil
}

// ActivateMapeo sets the active flag unconditionally
func (r *mapeoRepository) ActivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error) {
	return r.setActive(ctx, mapeoID, campaign, actorID, true)
}

// DeactivateMapeo clears the active flag unconditionally
func (r *mapeoRepository) DeactivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error) {
	return r.setActive(ctx, mapeoID, campaign, actorID, false)
}

func (r *mapeoRepository) setActive(ctx context.Context, mapeoID int, campaign bool, actorID int, active bool) (domain.Mapeo, error) {
	scopeClause := `campana_id IS NULL`
	if campaign {
		scopeClause = `campana_id IS NOT NULL`
	}
	m, err := scanMapeo(r.pool.QueryRow(ctx,
		`UPDATE mapeos SET activo = $1, usuario_ult_modificacion = $2, fec_ult_modificacion = now()
		 WHERE id = $3 AND `+scopeClause+`
		 RETURNING `+mapeoColumns,
		active, actorID, mapeoID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Mapeo{}, fmt.Errorf("mapeo %d: %w", mapeoID, domain.ErrRecordNotFound)
	}
	if err != nil {
		return domain.Mapeo{}, fmt.Errorf("failed to patch mapeo: %w", err)
	}
	return m, nil
}
