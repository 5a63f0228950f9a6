// Package ingestion loads columna definitions in bulk from uploaded csv or
// xlsx files. Rows are applied one by one; a bad row is reported and skipped,
// it never aborts the rest of the file.
package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abcconfig/mapeo-admin/internal/backend"
	"github.com/abcconfig/mapeo-admin/internal/domain"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// headerAliases maps the spreadsheet column labels users actually write to
// the canonical field each one feeds.
var headerAliases = map[string]string{
	"nombre":       "nombre",
	"columna":      "nombre",
	"regex":        "regex",
	"expresion":    "regex",
	"bolcargar":    "cargar",
	"cargar":       "cargar",
	"bolmodificar": "modificar",
	"modificar":    "modificar",
	"bolenviar":    "enviar",
	"enviar":       "enviar",
}

// Service creates columnas from tabular uploads through any backend.
type Service struct {
	columnas backend.ColumnaService
}

func NewService(columnas backend.ColumnaService) *Service {
	return &Service{columnas: columnas}
}

// Request describes one upload targeting a single mapeo.
type Request struct {
	MapeoID  int
	ActorID  int
	FileName string
	Data     io.Reader
}

// RowError reports why one row was skipped. RowNumber is 1-based and counts
// the header row.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
}

// Summary returns ingestion level metrics.
type Summary struct {
	TotalRows   int        `json:"totalRows"`
	ValidRows   int        `json:"validRows"`
	InvalidRows int        `json:"invalidRows"`
	Errors      []RowError `json:"errors,omitempty"`
}

type tableData struct {
	fields []string
	rows   [][]string
}

// Ingest reads the upload and creates one columna per valid row.
func (s *Service) Ingest(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{Errors: []RowError{}}

	if req.MapeoID <= 0 {
		return summary, errors.New("mapeo id is required")
	}
	if req.ActorID <= 0 {
		return summary, errors.New("actor id is required")
	}
	if req.Data == nil {
		return summary, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("read upload: %w", err)
	}
	if len(payload) == 0 {
		return summary, errors.New("file is empty")
	}

	table, err := parseTable(req.FileName, payload)
	if err != nil {
		return summary, err
	}
	if !contains(table.fields, "nombre") {
		return summary, errors.New("no nombre column detected in header row")
	}

	summary.TotalRows = len(table.rows)
	for idx, row := range table.rows {
		rowNumber := idx + 2
		columna, err := buildPayload(table.fields, row)
		if err != nil {
			summary.InvalidRows++
			summary.Errors = append(summary.Errors, RowError{RowNumber: rowNumber, Message: err.Error()})
			continue
		}
		if _, err := s.columnas.CreateColumna(ctx, req.MapeoID, columna, req.ActorID); err != nil {
			if errors.Is(err, domain.ErrScopeNotFound) {
				return summary, fmt.Errorf("mapeo %d: %w", req.MapeoID, err)
			}
			summary.InvalidRows++
			summary.Errors = append(summary.Errors, RowError{RowNumber: rowNumber, Message: err.Error()})
			continue
		}
		summary.ValidRows++
	}
	return summary, nil
}

func buildPayload(fields []string, row []string) (domain.ColumnaPayload, error) {
	var payload domain.ColumnaPayload
	for idx, field := range fields {
		if field == "" || idx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[idx])
		switch field {
		case "nombre":
			payload.Nombre = value
		case "regex":
			payload.Regex = value
		case "cargar", "modificar", "enviar":
			if value == "" {
				continue
			}
			flag, err := parseFlag(value)
			if err != nil {
				return domain.ColumnaPayload{}, fmt.Errorf("field %s: %w", field, err)
			}
			switch field {
			case "cargar":
				payload.Cargar = flag
			case "modificar":
				payload.Modificar = flag
			case "enviar":
				payload.Enviar = flag
			}
		}
	}
	if payload.Nombre == "" {
		return domain.ColumnaPayload{}, errors.New("nombre is required")
	}
	return payload, nil
}

func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "si", "sí", "yes", "y":
		return true, nil
	case "0", "no", "n":
		return false, nil
	}
	flag, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("unable to coerce %q to boolean", value)
	}
	return flag, nil
}

func parseTable(fileName string, payload []byte) (tableData, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return tableData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (tableData, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return tableData{}, fmt.Errorf("read csv: %w", err)
	}
	return normalizeTable(records)
}

func parseExcel(payload []byte) (tableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tableData{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tableData{}, errors.New("excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tableData{}, fmt.Errorf("read rows from xlsx: %w", err)
	}
	return normalizeTable(rows)
}

func normalizeTable(records [][]string) (tableData, error) {
	if len(records) == 0 {
		return tableData{}, errors.New("no rows found in file")
	}

	fields := make([]string, len(records[0]))
	for idx, label := range records[0] {
		key := strings.ToLower(strings.TrimSpace(label))
		key = strings.ReplaceAll(key, " ", "")
		key = strings.ReplaceAll(key, "_", "")
		fields[idx] = headerAliases[key]
	}

	var rows [][]string
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return tableData{fields: fields, rows: rows}, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
