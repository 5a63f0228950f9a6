package domain

// Mapeo is the canonical shape of a field-mapping configuration. The backend
// emits it under several historical field sets; everything behind the gateway
// boundary sees only this one.
type Mapeo struct {
	MapeoID                int    `json:"idABCConfigMapeoLinea"`
	LineaID                int    `json:"idABCCatLineaNegocio"`
	CampanaID              *int   `json:"idABCCatCampana,omitempty"`
	UsuarioID              int    `json:"idABCUsuario"`
	Nombre                 string `json:"nombre"`
	Descripcion            string `json:"descripcion"`
	Activo                 bool   `json:"bolActivo"`
	Dictaminacion          *bool  `json:"bolDictaminacion,omitempty"`
	FechaCreacion          string `json:"fecCreacion,omitempty"`
	FechaUltModificacion   string `json:"fecUltModificacion,omitempty"`
	UsuarioUltModificacion int    `json:"idABCUsuarioUltModificacion,omitempty"`
}

// CampaignScoped reports whether the mapeo belongs to a campaña partition.
// The distinction is fixed at normalization time and decides which endpoint
// family every later operation uses.
func (m Mapeo) CampaignScoped() bool {
	return m.CampanaID != nil
}

// MapeoPayload carries the caller-editable fields for a create.
type MapeoPayload struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// MapeoUpdate carries the caller-editable fields for an update. Identifiers
// are immutable after creation; CampanaID here only routes the request, it
// never moves a record between scopes.
type MapeoUpdate struct {
	MapeoID     int
	LineaID     int
	CampanaID   *int
	Nombre      string
	Descripcion string
}

// Linea is a business line, the top-level partition for mapeos.
type Linea struct {
	ID          int    `json:"idABCCatLineaNegocio"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Activo      bool   `json:"bolActivo"`
}

// Campana is a campaign nested under a business line.
type Campana struct {
	ID          int    `json:"idABCCatCampana"`
	LineaID     int    `json:"idABCCatLineaNegocio"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Activo      bool   `json:"bolActivo"`
}
