package export

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/abcconfig/mapeo-admin/internal/mock"
)

func TestSnapshotWritesBothSheets(t *testing.T) {
	store := mock.NewStore(mock.WithLatency(0))
	service := NewService(store, store, WithExportDirectory(t.TempDir()))

	result, err := service.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if result.MapeoRows == 0 {
		t.Fatal("snapshot exported no mapeos")
	}
	if result.ColumnaRows == 0 {
		t.Fatal("snapshot exported no columnas")
	}

	f, err := excelize.OpenFile(result.FilePath)
	if err != nil {
		t.Fatalf("reopen snapshot: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(mapeoSheet)
	if err != nil {
		t.Fatalf("read mapeo sheet: %v", err)
	}
	if len(rows) != result.MapeoRows+1 {
		t.Fatalf("mapeo sheet has %d rows, want %d data rows plus header", len(rows), result.MapeoRows)
	}
	if rows[0][0] != "idABCConfigMapeoLinea" {
		t.Fatalf("first header = %q, want idABCConfigMapeoLinea", rows[0][0])
	}

	colRows, err := f.GetRows(columnaSheet)
	if err != nil {
		t.Fatalf("read columna sheet: %v", err)
	}
	if len(colRows) != result.ColumnaRows+1 {
		t.Fatalf("columna sheet has %d rows, want %d data rows plus header", len(colRows), result.ColumnaRows)
	}
}

func TestSnapshotIncludesCampaignColumnas(t *testing.T) {
	store := mock.NewStore(mock.WithLatency(0))
	service := NewService(store, store, WithExportDirectory(t.TempDir()))

	result, err := service.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	campaign, err := store.ColumnasCampana(context.Background())
	if err != nil {
		t.Fatalf("list campaign columnas: %v", err)
	}
	line, err := store.ColumnasByMapeo(context.Background(), 1)
	if err != nil {
		t.Fatalf("list line columnas: %v", err)
	}
	if result.ColumnaRows < len(campaign)+len(line) {
		t.Fatalf("snapshot has %d columnas, want at least %d", result.ColumnaRows, len(campaign)+len(line))
	}
}
