// Package export writes snapshot workbooks of the mapeo catalog for offline
// review. Snapshots are synchronous; the catalog is small enough that no job
// queue is warranted.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/abcconfig/mapeo-admin/internal/backend"
	"github.com/abcconfig/mapeo-admin/internal/domain"
)

const (
	mapeoSheet   = "Mapeos"
	columnaSheet = "Columnas"
)

var mapeoHeaders = []any{
	"idABCConfigMapeoLinea", "idABCCatLineaNegocio", "idABCCatCampana",
	"nombre", "descripcion", "bolActivo", "idABCUsuario", "fecCreacion",
	"fecUltModificacion", "idABCUsuarioUltModificacion",
}

var columnaHeaders = []any{
	"idABCCatColumna", "idABCConfigMapeoLinea", "idABCCatCampana",
	"nombre", "regex", "bolActivo", "bolCargar", "bolModificar", "bolEnviar",
}

// Service builds xlsx snapshots from whichever backend is composed in.
type Service struct {
	mapeos    backend.MapeoService
	columnas  backend.ColumnaService
	exportDir string
	now       func() time.Time
}

type Option func(*Service)

func WithExportDirectory(dir string) Option {
	return func(s *Service) {
		if strings.TrimSpace(dir) != "" {
			s.exportDir = filepath.Clean(dir)
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(mapeos backend.MapeoService, columnas backend.ColumnaService, opts ...Option) *Service {
	service := &Service{
		mapeos:    mapeos,
		columnas:  columnas,
		exportDir: filepath.Join(os.TempDir(), "mapeo-exports"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Result describes one completed snapshot file.
type Result struct {
	FileName    string `json:"fileName"`
	FilePath    string `json:"filePath"`
	MapeoRows   int    `json:"mapeoRows"`
	ColumnaRows int    `json:"columnaRows"`
	GeneratedAt string `json:"generatedAt"`
}

// Snapshot collects every mapeo and columna reachable through the backend and
// writes them to a two-sheet workbook in the export directory.
func (s *Service) Snapshot(ctx context.Context) (Result, error) {
	if err := s.ensureExportDirectory(); err != nil {
		return Result{}, err
	}

	mapeos, err := s.mapeos.AllMapeos(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("collect mapeos: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(mapeoSheet)
	if err != nil {
		return Result{}, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(columnaSheet); err != nil {
		return Result{}, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	if err := f.SetSheetRow(mapeoSheet, "A1", &mapeoHeaders); err != nil {
		return Result{}, fmt.Errorf("write header: %w", err)
	}
	for i, m := range mapeos {
		row := []any{
			m.MapeoID, m.LineaID, intOrBlank(m.CampanaID),
			m.Nombre, m.Descripcion, m.Activo, m.UsuarioID, m.FechaCreacion,
			m.FechaUltModificacion, m.UsuarioUltModificacion,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(mapeoSheet, cell, &row); err != nil {
			return Result{}, fmt.Errorf("write mapeo row: %w", err)
		}
	}

	columnas, err := s.collectColumnas(ctx, mapeos)
	if err != nil {
		return Result{}, err
	}
	if err := f.SetSheetRow(columnaSheet, "A1", &columnaHeaders); err != nil {
		return Result{}, fmt.Errorf("write header: %w", err)
	}
	for i, c := range columnas {
		row := []any{
			c.CatColumnaID, c.MapeoID, intOrBlank(c.CampanaID),
			c.Nombre, c.Regex, c.Activo, c.Cargar, c.Modificar, c.Enviar,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(columnaSheet, cell, &row); err != nil {
			return Result{}, fmt.Errorf("write columna row: %w", err)
		}
	}

	fileName := fmt.Sprintf("mapeos-%s.xlsx", uuid.New().String())
	finalPath := filepath.Join(s.exportDir, fileName)
	if err := f.SaveAs(finalPath); err != nil {
		return Result{}, fmt.Errorf("save snapshot: %w", err)
	}

	result := Result{
		FileName:    fileName,
		FilePath:    finalPath,
		MapeoRows:   len(mapeos),
		ColumnaRows: len(columnas),
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
	}
	log.Printf("[export] snapshot completed (mapeos=%d columnas=%d path=%s)", result.MapeoRows, result.ColumnaRows, finalPath)
	return result, nil
}

// collectColumnas walks line-level mapeos for their columnas and appends the
// shared campaign catalog once at the end.
func (s *Service) collectColumnas(ctx context.Context, mapeos []domain.Mapeo) ([]domain.Columna, error) {
	var all []domain.Columna
	for _, m := range mapeos {
		if m.CampaignScoped() {
			continue
		}
		columnas, err := s.columnas.ColumnasByMapeo(ctx, m.MapeoID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("collect columnas for mapeo %d: %w", m.MapeoID, err)
		}
		all = append(all, columnas...)
	}
	campaign, err := s.columnas.ColumnasCampana(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect campaign columnas: %w", err)
	}
	return append(all, campaign...), nil
}

func (s *Service) ensureExportDirectory() error {
	if strings.TrimSpace(s.exportDir) == "" {
		return errors.New("export directory is not configured")
	}
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return fmt.Errorf("ensure export directory: %w", err)
	}
	return nil
}

func intOrBlank(value *int) any {
	if value == nil {
		return ""
	}
	return *value
}
