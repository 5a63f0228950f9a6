package domain

import "encoding/json"

// Alias tables for the raw shapes the backend has emitted over time. The
// formal field names come first; resolution is left-to-right, first defined
// (non-null) value wins. Missing fields degrade to zero values, never to an
// error: upstream shape is not controlled by this layer.
var (
	mapeoIDAliases      = []string{"idABCConfigMapeoLinea", "id", "id_mapeo"}
	lineaIDAliases      = []string{"idABCCatLineaNegocio", "id_linea", "idLinea"}
	campanaIDAliases    = []string{"idABCCatCampana", "idABCConfigMapeoCampana", "id_campana"}
	usuarioIDAliases    = []string{"idABCUsuario", "idUsuario", "id_usuario"}
	activoAliases       = []string{"bolActivo", "status"}
	dictAliases         = []string{"bolDictaminacion", "dictaminacion"}
	nombreAliases       = []string{"nombre"}
	descripcionAliases  = []string{"descripcion"}
	fecCreacionAliases  = []string{"fecCreacion", "fecha_creacion"}
	fecModifAliases     = []string{"fecUltModificacion", "fecha_ult_modificacion"}
	usuarioModifAliases = []string{"idABCUsuarioUltModificacion", "id_usuario_ult_modificacion"}

	catColumnaIDAliases = []string{"idABCCatColumna", "id_columna", "id"}
	regexAliases        = []string{"regex"}
	cargarAliases       = []string{"bolCargar", "cargar"}
	modificarAliases    = []string{"bolModificar", "modificar"}
	enviarAliases       = []string{"bolEnviar", "enviar"}
)

// NormalizeMapeo converts one raw record, in any of the known shapes, into
// the canonical Mapeo. CampanaID is set iff a campaign alias is present and
// non-null in the input; that decision is made here, once.
func NormalizeMapeo(raw map[string]any) Mapeo {
	return Mapeo{
		MapeoID:                intField(raw, mapeoIDAliases),
		LineaID:                intField(raw, lineaIDAliases),
		CampanaID:              optIntField(raw, campanaIDAliases),
		UsuarioID:              intField(raw, usuarioIDAliases),
		Nombre:                 stringField(raw, nombreAliases),
		Descripcion:            stringField(raw, descripcionAliases),
		Activo:                 boolField(raw, activoAliases),
		Dictaminacion:          optBoolField(raw, dictAliases),
		FechaCreacion:          stringField(raw, fecCreacionAliases),
		FechaUltModificacion:   stringField(raw, fecModifAliases),
		UsuarioUltModificacion: intField(raw, usuarioModifAliases),
	}
}

// NormalizeColumna converts one raw columna record into the canonical shape.
func NormalizeColumna(raw map[string]any) Columna {
	return Columna{
		CatColumnaID:           intField(raw, catColumnaIDAliases),
		MapeoID:                intField(raw, mapeoIDAliases),
		LineaID:                intField(raw, lineaIDAliases),
		CampanaID:              optIntField(raw, campanaIDAliases),
		UsuarioID:              intField(raw, usuarioIDAliases),
		Nombre:                 stringField(raw, nombreAliases),
		Regex:                  stringField(raw, regexAliases),
		Activo:                 boolField(raw, activoAliases),
		Cargar:                 boolField(raw, cargarAliases),
		Modificar:              boolField(raw, modificarAliases),
		Enviar:                 boolField(raw, enviarAliases),
		Dictaminacion:          optBoolField(raw, dictAliases),
		FechaCreacion:          stringField(raw, fecCreacionAliases),
		FechaUltModificacion:   stringField(raw, fecModifAliases),
		UsuarioUltModificacion: intField(raw, usuarioModifAliases),
	}
}

// DecodeMapeos parses a response body holding either a bare array of raw
// mapeo records or a {"data": [...]} envelope, normalizing every element in
// order.
func DecodeMapeos(body []byte) ([]Mapeo, error) {
	raws, err := unwrapList(body)
	if err != nil {
		return nil, err
	}
	mapeos := make([]Mapeo, 0, len(raws))
	for _, raw := range raws {
		mapeos = append(mapeos, NormalizeMapeo(raw))
	}
	return mapeos, nil
}

// DecodeMapeo parses a response body holding a single raw mapeo record,
// optionally wrapped in a {"data": {...}} envelope.
func DecodeMapeo(body []byte) (Mapeo, error) {
	raw, err := unwrapObject(body)
	if err != nil {
		return Mapeo{}, err
	}
	return NormalizeMapeo(raw), nil
}

// DecodeColumnas mirrors DecodeMapeos for columna records.
func DecodeColumnas(body []byte) ([]Columna, error) {
	raws, err := unwrapList(body)
	if err != nil {
		return nil, err
	}
	columnas := make([]Columna, 0, len(raws))
	for _, raw := range raws {
		columnas = append(columnas, NormalizeColumna(raw))
	}
	return columnas, nil
}

// DecodeColumna mirrors DecodeMapeo for a single columna record.
func DecodeColumna(body []byte) (Columna, error) {
	raw, err := unwrapObject(body)
	if err != nil {
		return Columna{}, err
	}
	return NormalizeColumna(raw), nil
}

func unwrapList(body []byte) ([]map[string]any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	if envelope, ok := doc.(map[string]any); ok {
		doc = envelope["data"]
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, nil
	}
	raws := make([]map[string]any, 0, len(list))
	for _, elem := range list {
		if raw, ok := elem.(map[string]any); ok {
			raws = append(raws, raw)
		}
	}
	return raws, nil
}

func unwrapObject(body []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, nil
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		return inner, nil
	}
	return raw, nil
}

func lookup(raw map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if value, ok := raw[alias]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func intField(raw map[string]any, aliases []string) int {
	value, ok := lookup(raw, aliases)
	if !ok {
		return 0
	}
	return coerceInt(value)
}

func optIntField(raw map[string]any, aliases []string) *int {
	value, ok := lookup(raw, aliases)
	if !ok {
		return nil
	}
	n := coerceInt(value)
	return &n
}

func stringField(raw map[string]any, aliases []string) string {
	value, ok := lookup(raw, aliases)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// boolField accepts both boolean and 0/1 numeric encodings; legacy payloads
// report the active flag as status: 0|1.
func boolField(raw map[string]any, aliases []string) bool {
	value, ok := lookup(raw, aliases)
	if !ok {
		return false
	}
	return coerceBool(value)
}

func optBoolField(raw map[string]any, aliases []string) *bool {
	value, ok := lookup(raw, aliases)
	if !ok {
		return nil
	}
	b := coerceBool(value)
	return &b
}

func coerceInt(value any) int {
	switch v := value.(type) {
	case float64:
		// encoding/json decodes every number into float64
		return int(v)
	case int:
		return v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	default:
		return false
	}
}
