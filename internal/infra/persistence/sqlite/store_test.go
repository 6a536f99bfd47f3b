package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"baukatalog/pkg/katalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "katalog-test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecords(t *testing.T) []katalog.Record {
	t.Helper()
	doc, err := katalog.DecodeDocument([]byte(`{"pos-eigenschaften":{"stichwort":"C20/25"},"@_ftnr":"A"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return []katalog.Record{
		{Type: katalog.EntityLG, LG: "00", FullNumber: "00", SearchText: "Dokumententyp: Hauptgruppe."},
		{Type: katalog.EntityULG, LG: "00", ULG: "11", FullNumber: "0011"},
		{Type: katalog.EntityFolgeposition, LG: "00", ULG: "11", Grundtext: "01", Position: "A",
			FullNumber: "001101A", ShortText: "C20/25", Document: doc},
		{Type: katalog.EntityLG, LG: "02", FullNumber: "02"},
	}
}

func TestPutAndGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.PutRecords(ctx, testRecords(t)); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, found, err := store.GetByFullNumber(ctx, "001101A")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if rec.Type != katalog.EntityFolgeposition || rec.ShortText != "C20/25" {
		t.Fatalf("row = %+v", rec)
	}
	// Member order must survive the TEXT column round trip.
	b, err := rec.Document.MarshalJSON()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `{"pos-eigenschaften":{"stichwort":"C20/25"},"@_ftnr":"A"}` {
		t.Fatalf("document bytes changed: %s", b)
	}

	if _, found, err := store.GetByFullNumber(ctx, "999999"); err != nil || found {
		t.Fatalf("missing row: found=%v err=%v", found, err)
	}
}

func TestListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.PutRecords(ctx, testRecords(t)); err != nil {
		t.Fatalf("put: %v", err)
	}

	records, err := store.List(ctx, katalog.RecordQuery{Type: katalog.EntityLG})
	if err != nil {
		t.Fatalf("list lgs: %v", err)
	}
	if len(records) != 2 || records[0].FullNumber != "00" || records[1].FullNumber != "02" {
		t.Fatalf("lg rows = %+v", records)
	}

	records, err = store.List(ctx, katalog.RecordQuery{LGNumbers: []string{"00"}, ULG: "11"})
	if err != nil {
		t.Fatalf("list by lg set: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected ulg row and position row, got %d", len(records))
	}

	records, err = store.List(ctx, katalog.RecordQuery{Grundtext: "01"})
	if err != nil {
		t.Fatalf("list by grundtext: %v", err)
	}
	if len(records) != 1 || records[0].Position != "A" {
		t.Fatalf("grundtext filter = %+v", records)
	}
}

func TestListPaginationAndCount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.PutRecords(ctx, testRecords(t)); err != nil {
		t.Fatalf("put: %v", err)
	}

	page, err := store.List(ctx, katalog.RecordQuery{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 || page[0].FullNumber != "0011" {
		t.Fatalf("page = %+v", page)
	}

	rest, err := store.List(ctx, katalog.RecordQuery{Offset: 3})
	if err != nil {
		t.Fatalf("offset only: %v", err)
	}
	if len(rest) != 1 || rest[0].FullNumber != "02" {
		t.Fatalf("rest = %+v", rest)
	}

	n, err := store.Count(ctx, katalog.RecordQuery{Limit: 1})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Fatalf("count = %d", n)
	}
}

func TestNilDocumentStoredAsEmptyObject(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.PutRecords(ctx, []katalog.Record{{Type: katalog.EntityLG, LG: "05", FullNumber: "05"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, found, err := store.GetByFullNumber(ctx, "05")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if rec.Document == nil || rec.Document.Len() != 0 {
		t.Fatalf("document = %+v", rec.Document)
	}
}

func TestDefaultPathFallback(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "nested", "dir", "katalog.db"))
	if err != nil {
		t.Fatalf("nested dirs should be created: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
