package memory

import (
	"context"
	"testing"

	"baukatalog/pkg/katalog"
)

func seed(t *testing.T, store *Store) {
	t.Helper()
	records := []katalog.Record{
		{Type: katalog.EntityLG, LG: "00", FullNumber: "00"},
		{Type: katalog.EntityULG, LG: "00", ULG: "11", FullNumber: "0011"},
		{Type: katalog.EntityGrundtext, LG: "00", ULG: "11", Grundtext: "01", FullNumber: "001101"},
		{Type: katalog.EntityFolgeposition, LG: "00", ULG: "11", Grundtext: "01", Position: "B", FullNumber: "001101B"},
		{Type: katalog.EntityFolgeposition, LG: "00", ULG: "11", Grundtext: "01", Position: "A", FullNumber: "001101A"},
		{Type: katalog.EntityLG, LG: "02", FullNumber: "02"},
	}
	if err := store.PutRecords(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestGetByFullNumber(t *testing.T) {
	store := NewStore()
	seed(t, store)
	rec, found, err := store.GetByFullNumber(context.Background(), "001101A")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if rec.Position != "A" {
		t.Fatalf("position = %q", rec.Position)
	}
	if _, found, _ := store.GetByFullNumber(context.Background(), "999999"); found {
		t.Fatalf("missing number must not be found")
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	store := NewStore()
	seed(t, store)

	records, err := store.List(context.Background(), katalog.RecordQuery{Type: katalog.EntityFolgeposition})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 folgepositionen, got %d", len(records))
	}
	if records[0].FullNumber != "001101A" || records[1].FullNumber != "001101B" {
		t.Fatalf("rows not ordered by full number: %s, %s", records[0].FullNumber, records[1].FullNumber)
	}

	records, err = store.List(context.Background(), katalog.RecordQuery{LGNumbers: []string{"02"}})
	if err != nil {
		t.Fatalf("list by lg: %v", err)
	}
	if len(records) != 1 || records[0].LG != "02" {
		t.Fatalf("lg filter failed: %+v", records)
	}

	records, err = store.List(context.Background(), katalog.RecordQuery{ULG: "11", Grundtext: "01"})
	if err != nil {
		t.Fatalf("list by ulg/grundtext: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected grundtext row plus two positions, got %d", len(records))
	}
}

func TestListPagination(t *testing.T) {
	store := NewStore()
	seed(t, store)

	page, err := store.List(context.Background(), katalog.RecordQuery{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d", len(page))
	}
	if page[0].FullNumber != "0011" {
		t.Fatalf("offset ignored, first = %s", page[0].FullNumber)
	}

	empty, err := store.List(context.Background(), katalog.RecordQuery{Offset: 100})
	if err != nil || len(empty) != 0 {
		t.Fatalf("out-of-range offset: %v, %d rows", err, len(empty))
	}
}

func TestCountIgnoresPagination(t *testing.T) {
	store := NewStore()
	seed(t, store)
	n, err := store.Count(context.Background(), katalog.RecordQuery{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 6 {
		t.Fatalf("count = %d", n)
	}
}
