package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// Helper function to create an in-memory store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	if err := store.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return store
}

func testDataset(t *testing.T) *transactions.Dataset {
	t.Helper()
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	ds, err := transactions.NewDataset([]transactions.Record{
		{Retailer: "CVS", ParentBrand: "Monster", HouseholdID: "H1", ItemUnits: 2, ItemDollars: "$4.50", Date: day("2014-01-05")},
		{Retailer: "Publix", ParentBrand: "Red Bull", HouseholdID: "H2", ItemUnits: 1, ItemDollars: "12.34", Date: day("2014-02-10")},
		{Retailer: "CVS", ParentBrand: "Rockstar", HouseholdID: "H1", ItemUnits: 0, ItemDollars: "$0", Date: day("2014-03-01")},
	})
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}
	return ds
}

func TestNew(t *testing.T) {
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer store.Close()

	if store.db == nil {
		t.Error("Store.db should not be nil")
	}
}

func TestCreateSchema(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	tables := []string{"datasets", "transactions"}
	for _, table := range tables {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Idempotent
	if err := store.CreateSchema(); err != nil {
		t.Errorf("second CreateSchema() failed: %v", err)
	}
}

func TestListDatasets_NoSchema_ReturnsErrNotInitialized(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	_, err = s.ListDatasets()
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListDatasets() error = %v; want ErrNotInitialized", err)
	}

	_, err = s.GetDatasetInfo("trips.csv")
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetDatasetInfo() error = %v; want ErrNotInitialized", err)
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ds := testDataset(t)
	info, err := store.SaveDataset("trips.csv", "123:456", ds)
	if err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}

	if info.ID == "" {
		t.Error("snapshot ID should be set")
	}
	if info.RecordCount != 3 {
		t.Errorf("RecordCount = %d, want 3", info.RecordCount)
	}

	got, err := store.GetDatasetInfo("trips.csv")
	if err != nil {
		t.Fatalf("GetDatasetInfo() failed: %v", err)
	}
	if got.ID != info.ID || got.Fingerprint != "123:456" || got.RecordCount != 3 {
		t.Errorf("GetDatasetInfo() = %+v, want %+v", got, info)
	}
	if !got.LoadedAt.Equal(info.LoadedAt) {
		t.Errorf("LoadedAt = %v, want %v", got.LoadedAt, info.LoadedAt)
	}

	loaded, err := store.LoadDataset(info.ID)
	if err != nil {
		t.Fatalf("LoadDataset() failed: %v", err)
	}
	if loaded.Len() != ds.Len() {
		t.Fatalf("loaded %d records, want %d", loaded.Len(), ds.Len())
	}
	for i := 0; i < ds.Len(); i++ {
		want, have := ds.At(i), loaded.At(i)
		if want.Retailer != have.Retailer || want.ParentBrand != have.ParentBrand ||
			want.HouseholdID != have.HouseholdID || want.ItemUnits != have.ItemUnits ||
			want.ItemDollars != have.ItemDollars || !want.Date.Equal(have.Date) {
			t.Errorf("record %d = %+v, want %+v", i, have, want)
		}
	}
}

func TestSaveDataset_ReplacesPreviousSnapshot(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	first, err := store.SaveDataset("trips.csv", "a", testDataset(t))
	if err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}
	second, err := store.SaveDataset("trips.csv", "b", testDataset(t))
	if err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("each snapshot should get a new ID")
	}

	infos, err := store.ListDatasets()
	if err != nil {
		t.Fatalf("ListDatasets() failed: %v", err)
	}
	if len(infos) != 1 || infos[0].Fingerprint != "b" {
		t.Errorf("ListDatasets() = %+v, want only the second snapshot", infos)
	}

	// Old rows are cascaded away.
	var count int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM transactions WHERE dataset_id = ?", first.ID).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("old snapshot still has %d transaction rows", count)
	}
}

func TestGetDatasetInfo_NoSnapshot(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.GetDatasetInfo("missing.csv")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("GetDatasetInfo() error = %v; want ErrNoSnapshot", err)
	}
	if !strings.Contains(err.Error(), "missing.csv") {
		t.Errorf("error %q should name the source", err.Error())
	}
}

func TestLoadDataset_UnknownID(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.LoadDataset("no-such-id")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("LoadDataset() error = %v; want ErrNoSnapshot", err)
	}
}

func TestDeleteDataset(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	if _, err := store.SaveDataset("a.csv", "", testDataset(t)); err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}
	if _, err := store.SaveDataset("b.csv", "", testDataset(t)); err != nil {
		t.Fatalf("SaveDataset() failed: %v", err)
	}

	if err := store.DeleteDataset("a.csv"); err != nil {
		t.Fatalf("DeleteDataset() failed: %v", err)
	}
	if err := store.DeleteDataset("a.csv"); err != nil {
		t.Errorf("deleting a missing snapshot should not fail: %v", err)
	}
	if _, err := store.GetDatasetInfo("a.csv"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("a.csv should be gone, got %v", err)
	}

	n, err := store.DeleteAll()
	if err != nil {
		t.Fatalf("DeleteAll() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteAll() removed %d, want 1", n)
	}
}
