package domain

// Columna is a column-validation definition attached to a mapeo. The regex is
// forwarded opaquely; pattern validation is the backend's job.
type Columna struct {
	CatColumnaID           int    `json:"idABCCatColumna"`
	MapeoID                int    `json:"idABCConfigMapeoLinea"`
	LineaID                int    `json:"idABCCatLineaNegocio"`
	CampanaID              *int   `json:"idABCCatCampana,omitempty"`
	UsuarioID              int    `json:"idABCUsuario"`
	Nombre                 string `json:"nombre"`
	Regex                  string `json:"regex"`
	Activo                 bool   `json:"bolActivo"`
	Cargar                 bool   `json:"bolCargar"`
	Modificar              bool   `json:"bolModificar"`
	Enviar                 bool   `json:"bolEnviar"`
	Dictaminacion          *bool  `json:"bolDictaminacion,omitempty"`
	FechaCreacion          string `json:"fecCreacion,omitempty"`
	FechaUltModificacion   string `json:"fecUltModificacion,omitempty"`
	UsuarioUltModificacion int    `json:"idABCUsuarioUltModificacion,omitempty"`
}

// CampaignScoped reports whether the columna is a campaign-level shared
// definition rather than a line-level one bound to a single mapeo.
func (c Columna) CampaignScoped() bool {
	return c.CampanaID != nil
}

// ColumnaPayload carries the caller-editable fields for a line-level create.
type ColumnaPayload struct {
	Nombre    string `json:"nombre"`
	Regex     string `json:"regex"`
	Cargar    bool   `json:"bolCargar"`
	Modificar bool   `json:"bolModificar"`
	Enviar    bool   `json:"bolEnviar"`
}

// ColumnaCampanaPayload is the global campaign-column create/update shape.
// The backend expects exactly these three fields plus the actor id.
type ColumnaCampanaPayload struct {
	MapeoConfigID int    `json:"idABCConfigMapeoCampana"`
	CatColumnaID  int    `json:"idABCCatColumna"`
	Regex         string `json:"regex"`
}

// ColumnaUpdate carries the caller-editable fields for a line-level update.
type ColumnaUpdate struct {
	MapeoID      int
	CatColumnaID int
	Nombre       string
	Regex        string
	Cargar       bool
	Modificar    bool
	Enviar       bool
}
