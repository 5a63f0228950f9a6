package mock

import (
	"context"
	"fmt"

	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// ColumnasByMapeo lists the line-level columnas bound to one mapeo.
func (s *Store) ColumnasByMapeo(ctx context.Context, mapeoID int) ([]domain.Columna, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Columna(nil), s.lineColumnas[mapeoID]...), nil
}

// ColumnasCampana lists the globally shared campaign columnas.
func (s *Store) ColumnasCampana(ctx context.Context) ([]domain.Columna, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Columna(nil), s.campColumnas...), nil
}

// CreateColumna stores a new line-level columna under a mapeo, active and
// with the next shared id. The owning mapeo must exist.
func (s *Store) CreateColumna(ctx context.Context, mapeoID int, payload domain.ColumnaPayload, actorID int) (domain.Columna, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Columna{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lineaID := s.lineaOfMapeo(mapeoID)
	if lineaID == 0 {
		return domain.Columna{}, fmt.Errorf("mapeo %d: %w", mapeoID, domain.ErrScopeNotFound)
	}
	c := domain.Columna{
		CatColumnaID:  s.allocID(),
		MapeoID:       mapeoID,
		LineaID:       lineaID,
		UsuarioID:     actorID,
		Nombre:        payload.Nombre,
		Regex:         payload.Regex,
		Activo:        true,
		Cargar:        payload.Cargar,
		Modificar:     payload.Modificar,
		Enviar:        payload.Enviar,
		FechaCreacion: s.stamp(),
	}
	s.lineColumnas[mapeoID] = append(s.lineColumnas[mapeoID], c)
	s.logger.Printf("[MOCK] created columna %d in mapeo %d", c.CatColumnaID, mapeoID)
	return c, nil
}

// CreateColumnaCampana stores a new globally shared campaign columna.
func (s *Store) CreateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Columna{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	campana := 0
	c := domain.Columna{
		CatColumnaID:  payload.CatColumnaID,
		MapeoID:       payload.MapeoConfigID,
		CampanaID:     &campana,
		UsuarioID:     actorID,
		Regex:         payload.Regex,
		Activo:        true,
		FechaCreacion: s.stamp(),
	}
	if c.CatColumnaID == 0 {
		c.CatColumnaID = s.allocID()
	}
	s.campColumnas = append(s.campColumnas, c)
	return c, nil
}

// UpdateColumna replaces the editable fields of a line-level columna. The
// mapeo partition missing and the columna missing are distinct NotFound causes.
func (s *Store) UpdateColumna(ctx context.Context, update domain.ColumnaUpdate, actorID int) (domain.Columna, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Columna{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	partition, ok := s.lineColumnas[update.MapeoID]
	if !ok {
		return domain.Columna{}, fmt.Errorf("mapeo %d: %w", update.MapeoID, domain.ErrScopeNotFound)
	}
	for i := range partition {
		if partition[i].CatColumnaID == update.CatColumnaID {
			partition[i].Nombre = update.Nombre
			partition[i].Regex = update.Regex
			partition[i].Cargar = update.Cargar
			partition[i].Modificar = update.Modificar
			partition[i].Enviar = update.Enviar
			partition[i].UsuarioUltModificacion = actorID
			partition[i].FechaUltModificacion = s.stamp()
			return partition[i], nil
		}
	}
	return domain.Columna{}, fmt.Errorf("columna %d: %w", update.CatColumnaID, domain.ErrRecordNotFound)
}

// UpdateColumnaCampana rebinds the regex of a campaign columna.
func (s *Store) UpdateColumnaCampana(ctx context.Context, payload domain.ColumnaCampanaPayload, actorID int) (domain.Columna, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Columna{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.campColumnas {
		if s.campColumnas[i].CatColumnaID == payload.CatColumnaID {
			s.campColumnas[i].Regex = payload.Regex
			s.campColumnas[i].MapeoID = payload.MapeoConfigID
			s.campColumnas[i].UsuarioUltModificacion = actorID
			s.campColumnas[i].FechaUltModificacion = s.stamp()
			return s.campColumnas[i], nil
		}
	}
	return domain.Columna{}, fmt.Errorf("columna %d: %w", payload.CatColumnaID, domain.ErrRecordNotFound)
}

// ActivateColumna sets a columna's active flag unconditionally.
func (s *Store) ActivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error {
	return s.setColumnaActive(ctx, catColumnaID, campaign, actorID, true)
}

// DeactivateColumna clears a columna's active flag unconditionally.
func (s *Store) DeactivateColumna(ctx context.Context, catColumnaID int, campaign bool, actorID int) error {
	return s.setColumnaActive(ctx, catColumnaID, campaign, actorID, false)
}

func (s *Store) setColumnaActive(ctx context.Context, catColumnaID int, campaign bool, actorID int, active bool) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if campaign {
		for i := range s.campColumnas {
			if s.campColumnas[i].CatColumnaID == catColumnaID {
				s.campColumnas[i].Activo = active
				s.campColumnas[i].UsuarioUltModificacion = actorID
				s.campColumnas[i].FechaUltModificacion = s.stamp()
				return nil
			}
		}
		return fmt.Errorf("columna %d: %w", catColumnaID, domain.ErrRecordNotFound)
	}
	for mapeoID := range s.lineColumnas {
		partition := s.lineColumnas[mapeoID]
		for i := range partition {
			if partition[i].CatColumnaID == catColumnaID {
				partition[i].Activo = active
				partition[i].UsuarioUltModificacion = actorID
				partition[i].FechaUltModificacion = s.stamp()
				return nil
			}
		}
	}
	return fmt.Errorf("columna %d: %w", catColumnaID, domain.ErrRecordNotFound)
}

func (s *Store) lineaOfMapeo(mapeoID int) int {
	for lineaID, ms := range s.lineMapeos {
		for _, m := range ms {
			if m.MapeoID == mapeoID {
				return lineaID
			}
		}
	}
	return 0
}
