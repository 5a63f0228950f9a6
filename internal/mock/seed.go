package mock

import "github.com/abcconfig/mapeo-admin/internal/domain"

func intPtr(n int) *int { return &n }

// seed loads the development fixtures. Ids are stable so the UI can deep-link
// against them between restarts.
func (s *Store) seed() {
	s.lineas = []domain.Linea{
		{ID: 1, Nombre: "Crédito", Descripcion: "Línea de crédito al consumo", Activo: true},
		{ID: 2, Nombre: "Seguros", Descripcion: "Línea de seguros", Activo: true},
	}

	s.campanas = map[int][]domain.Campana{
		1: {
			{ID: 10, LineaID: 1, Nombre: "Preaprobados", Descripcion: "Campaña de preaprobados", Activo: true},
		},
	}

	s.lineMapeos = map[int][]domain.Mapeo{
		1: {
			{MapeoID: 1, LineaID: 1, UsuarioID: 1, Nombre: "Mapeo buró", Descripcion: "Carga de buró de crédito", Activo: true, FechaCreacion: "2024-01-10T09:00:00Z"},
			{MapeoID: 2, LineaID: 1, UsuarioID: 1, Nombre: "Mapeo originación", Descripcion: "Solicitudes de originación", Activo: false, FechaCreacion: "2024-02-02T12:30:00Z"},
		},
		2: {
			{MapeoID: 3, LineaID: 2, UsuarioID: 2, Nombre: "Mapeo pólizas", Descripcion: "Alta de pólizas", Activo: true, FechaCreacion: "2024-03-15T08:45:00Z"},
		},
	}

	s.campMapeos = map[scopeKey][]domain.Mapeo{
		{linea: 1, campana: 10}: {
			{MapeoID: 4, LineaID: 1, CampanaID: intPtr(10), UsuarioID: 1, Nombre: "Mapeo preaprobados", Descripcion: "Carga de la campaña", Activo: true, FechaCreacion: "2024-04-01T10:00:00Z"},
		},
	}

	s.lineColumnas = map[int][]domain.Columna{
		1: {
			{CatColumnaID: 1, MapeoID: 1, LineaID: 1, UsuarioID: 1, Nombre: "curp", Regex: `^[A-Z]{4}\d{6}[A-Z]{6}\d{2}$`, Activo: true, Cargar: true, Modificar: true, Enviar: true, FechaCreacion: "2024-01-10T09:05:00Z"},
			{CatColumnaID: 2, MapeoID: 1, LineaID: 1, UsuarioID: 1, Nombre: "rfc", Regex: `^[A-ZÑ&]{3,4}\d{6}[A-Z\d]{3}$`, Activo: true, Cargar: true, Modificar: false, Enviar: true, FechaCreacion: "2024-01-10T09:06:00Z"},
		},
	}

	s.campColumnas = []domain.Columna{
		{CatColumnaID: 3, MapeoID: 4, LineaID: 1, CampanaID: intPtr(10), UsuarioID: 1, Nombre: "telefono", Regex: `^\d{10}$`, Activo: true, Cargar: true, Modificar: true, Enviar: false, FechaCreacion: "2024-04-01T10:05:00Z"},
	}

	// shared sequence: seeded above the highest id of any record kind
	s.nextID = 5
	for _, c := range s.campColumnas {
		if c.CatColumnaID >= s.nextID {
			s.nextID = c.CatColumnaID + 1
		}
	}
	for _, cs := range s.lineColumnas {
		for _, c := range cs {
			if c.CatColumnaID >= s.nextID {
				s.nextID = c.CatColumnaID + 1
			}
		}
	}
	for _, ms := range s.lineMapeos {
		for _, m := range ms {
			if m.MapeoID >= s.nextID {
				s.nextID = m.MapeoID + 1
			}
		}
	}
	for _, ms := range s.campMapeos {
		for _, m := range ms {
			if m.MapeoID >= s.nextID {
				s.nextID = m.MapeoID + 1
			}
		}
	}
}
