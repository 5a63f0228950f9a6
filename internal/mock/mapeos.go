package mock

import (
	"context"
	"fmt"
	"sort"

	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// Lineas lists the seeded business lines.
func (s *Store) Lineas(ctx context.Context) ([]domain.Linea, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Linea(nil), s.lineas...), nil
}

// Linea looks up one business line.
func (s *Store) Linea(ctx context.Context, lineaID int) (domain.Linea, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Linea{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lineas {
		if l.ID == lineaID {
			return l, nil
		}
	}
	return domain.Linea{}, fmt.Errorf("linea %d: %w", lineaID, domain.ErrRecordNotFound)
}

// CampanasByLinea lists the campaigns under a business line.
func (s *Store) CampanasByLinea(ctx context.Context, lineaID int) ([]domain.Campana, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Campana(nil), s.campanas[lineaID]...), nil
}

// Campana looks up one campaign of a business line.
func (s *Store) Campana(ctx context.Context, lineaID, campanaID int) (domain.Campana, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Campana{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.campanas[lineaID] {
		if c.ID == campanaID {
			return c, nil
		}
	}
	return domain.Campana{}, fmt.Errorf("campaña %d: %w", campanaID, domain.ErrRecordNotFound)
}

// MapeosByLinea lists the line-scoped mapeos of one business line. Line 0 is
// the unscoped sentinel and returns every mapeo.
func (s *Store) MapeosByLinea(ctx context.Context, lineaID int) ([]domain.Mapeo, error) {
	if lineaID == 0 {
		return s.AllMapeos(ctx)
	}
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Mapeo(nil), s.lineMapeos[lineaID]...), nil
}

// MapeosByCampana lists the mapeos of one line+campaña partition.
func (s *Store) MapeosByCampana(ctx context.Context, lineaID, campanaID int) ([]domain.Mapeo, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Mapeo(nil), s.campMapeos[scopeKey{lineaID, campanaID}]...), nil
}

// AllMapeos flattens every partition, line-scoped records first, ordered by id.
func (s *Store) AllMapeos(ctx context.Context) ([]domain.Mapeo, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Mapeo
	for _, ms := range s.lineMapeos {
		all = append(all, ms...)
	}
	for _, ms := range s.campMapeos {
		all = append(all, ms...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].MapeoID < all[j].MapeoID })
	return all, nil
}

// CreateMapeo assigns the next shared id and stores the record active, in the
// line partition or the campaign partition depending on campanaID.
func (s *Store) CreateMapeo(ctx context.Context, lineaID int, campanaID *int, payload domain.MapeoPayload, actorID int) (domain.Mapeo, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Mapeo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := domain.Mapeo{
		MapeoID:       s.allocID(),
		LineaID:       lineaID,
		CampanaID:     campanaID,
		UsuarioID:     actorID,
		Nombre:        payload.Nombre,
		Descripcion:   payload.Descripcion,
		Activo:        true,
		FechaCreacion: s.stamp(),
	}
	if campanaID != nil {
		key := scopeKey{lineaID, *campanaID}
		s.campMapeos[key] = append(s.campMapeos[key], m)
	} else {
		s.lineMapeos[lineaID] = append(s.lineMapeos[lineaID], m)
	}
	s.logger.Printf("[MOCK] created mapeo %d in linea %d", m.MapeoID, lineaID)
	return m, nil
}

// UpdateMapeo replaces the editable fields of an existing record. A missing
// partition and a missing record are distinct causes, both NotFound.
func (s *Store) UpdateMapeo(ctx context.Context, update domain.MapeoUpdate, actorID int) (domain.Mapeo, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Mapeo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	partition, err := s.mapeoPartition(update.LineaID, update.CampanaID)
	if err != nil {
		return domain.Mapeo{}, err
	}
	for i := range partition {
		if partition[i].MapeoID == update.MapeoID {
			partition[i].Nombre = update.Nombre
			partition[i].Descripcion = update.Descripcion
			partition[i].UsuarioUltModificacion = actorID
			partition[i].FechaUltModificacion = s.stamp()
			return partition[i], nil
		}
	}
	return domain.Mapeo{}, fmt.Errorf("mapeo %d: %w", update.MapeoID, domain.ErrRecordNotFound)
}

// DeleteMapeo filters the owning partition. An absent id is a silent no-op,
// unlike update's strict NotFound; that asymmetry is the backend's contract.
func (s *Store) DeleteMapeo(ctx context.Context, lineaID int, campanaID *int, mapeoID int) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if campanaID != nil {
		key := scopeKey{lineaID, *campanaID}
		s.campMapeos[key] = removeMapeo(s.campMapeos[key], mapeoID)
		return nil
	}
	s.lineMapeos[lineaID] = removeMapeo(s.lineMapeos[lineaID], mapeoID)
	return nil
}

// ActivateMapeo sets the active flag unconditionally.
func (s *Store) ActivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error) {
	return s.setMapeoActive(ctx, mapeoID, campaign, actorID, true)
}

// DeactivateMapeo clears the active flag unconditionally.
func (s *Store) DeactivateMapeo(ctx context.Context, mapeoID int, campaign bool, actorID int) (domain.Mapeo, error) {
	return s.setMapeoActive(ctx, mapeoID, campaign, actorID, false)
}

func (s *Store) setMapeoActive(ctx context.Context, mapeoID int, campaign bool, actorID int, active bool) (domain.Mapeo, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Mapeo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, partition := range s.mapeoPartitions(campaign) {
		for i := range partition {
			if partition[i].MapeoID == mapeoID {
				partition[i].Activo = active
				partition[i].UsuarioUltModificacion = actorID
				partition[i].FechaUltModificacion = s.stamp()
				return partition[i], nil
			}
		}
	}
	return domain.Mapeo{}, fmt.Errorf("mapeo %d: %w", mapeoID, domain.ErrRecordNotFound)
}

// mapeoPartition resolves the partition an update targets, or ErrScopeNotFound.
func (s *Store) mapeoPartition(lineaID int, campanaID *int) ([]domain.Mapeo, error) {
	if campanaID != nil {
		partition, ok := s.campMapeos[scopeKey{lineaID, *campanaID}]
		if !ok {
			return nil, fmt.Errorf("linea %d campaña %d: %w", lineaID, *campanaID, domain.ErrScopeNotFound)
		}
		return partition, nil
	}
	partition, ok := s.lineMapeos[lineaID]
	if !ok {
		return nil, fmt.Errorf("linea %d: %w", lineaID, domain.ErrScopeNotFound)
	}
	return partition, nil
}

func (s *Store) mapeoPartitions(campaign bool) [][]domain.Mapeo {
	var partitions [][]domain.Mapeo
	if campaign {
		for _, p := range s.campMapeos {
			partitions = append(partitions, p)
		}
		return partitions
	}
	for _, p := range s.lineMapeos {
		partitions = append(partitions, p)
	}
	return partitions
}

func removeMapeo(partition []domain.Mapeo, mapeoID int) []domain.Mapeo {
	kept := partition[:0]
	for _, m := range partition {
		if m.MapeoID != mapeoID {
			kept = append(kept, m)
		}
	}
	return kept
}
