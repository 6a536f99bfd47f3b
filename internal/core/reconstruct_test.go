package core

import (
	"context"
	"errors"
	"testing"

	"baukatalog/pkg/katalog"
)

func TestAssemblePositionsRebuildsSubtreeFromRows(t *testing.T) {
	store := seededStore(t)
	trees, notes, err := AssemblePositions(context.Background(), store, []string{"001101", "001103A"})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("unexpected notes: %v", notes)
	}
	if len(trees) != 1 {
		t.Fatalf("expected one lg subtree, got %d", len(trees))
	}

	// Rebuilding from rows must agree with filtering the live tree directly.
	codes, _ := ParsePositionList([]string{"001101", "001103A"})
	direct, _ := KeepPositions(Canonicalize(lgFixtureDoc(t)), codes)
	if encodeDoc(t, Canonicalize(trees[0])) != encodeDoc(t, Canonicalize(direct)) {
		t.Fatalf("rebuilt subtree diverges from direct filtering:\n got %s\nwant %s",
			encodeDoc(t, Canonicalize(trees[0])), encodeDoc(t, Canonicalize(direct)))
	}
}

func TestAssemblePositionsPrefersRowDocumentsOverEmbeddedChildren(t *testing.T) {
	store := seededStore(t)
	// Change one stored folgeposition row; the stale copy embedded in the LG
	// and grundtext row documents must lose.
	for i, rec := range store.records {
		if rec.Type == EntityFolgeposition && rec.FullNumber == "001103A" {
			doc := rec.Document.Clone()
			props, _ := doc.ObjectAt(katalog.KeyPosProperties)
			props.Set(katalog.KeyShortText, "Wand neu")
			store.records[i].Document = doc
		}
	}
	trees, _, err := AssemblePositions(context.Background(), store, []string{"001103A"})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	gt := childGrundtexts(childULGs(trees[0])[0])[0]
	fp := childFolgepositionen(gt)[0]
	props, _ := fp.ObjectAt(katalog.KeyPosProperties)
	if text, _ := props.StringAt(katalog.KeyShortText); text != "Wand neu" {
		t.Fatalf("row update not reflected, short text = %q", text)
	}
}

func TestAssemblePositionsDropsEmptyLGs(t *testing.T) {
	store := seededStore(t)
	trees, notes, err := AssemblePositions(context.Background(), store, []string{"999901"})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(trees) != 0 {
		t.Fatalf("unknown lg must produce no subtree, got %d", len(trees))
	}
	if len(notes) == 0 {
		t.Fatalf("missing lg should be noted")
	}
}

func TestAssemblePositionsOrdersByLGNumber(t *testing.T) {
	store := seededStore(t)
	second := lgFixtureDoc(t)
	second.Set(katalog.KeyNumber, "05")
	if err := store.PutRecords(context.Background(), BuildRecords([]*Object{second})); err != nil {
		t.Fatalf("seed second lg: %v", err)
	}
	trees, _, err := AssemblePositions(context.Background(), store, []string{"051101", "001101"})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("expected two lg subtrees, got %d", len(trees))
	}
	first, _ := trees[0].StringAt(katalog.KeyNumber)
	if first != "00" {
		t.Fatalf("results must be ordered by lg number, first = %q", first)
	}
}

func TestAssemblePositionsAbortsOnStorageFailure(t *testing.T) {
	store := seededStore(t)
	store.failOps = true
	trees, _, err := AssemblePositions(context.Background(), store, []string{"001101"})
	var storageErr katalog.StorageUnavailableError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageUnavailableError, got %v", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("cause must be preserved")
	}
	if trees != nil {
		t.Fatalf("no partial results on failure")
	}
}

func TestAssemblePositionsAllInvalidNumbers(t *testing.T) {
	store := seededStore(t)
	trees, notes, err := AssemblePositions(context.Background(), store, []string{"xx", "123"})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(trees) != 0 || len(notes) != 2 {
		t.Fatalf("invalid numbers should be skipped with notes, trees=%d notes=%v", len(trees), notes)
	}
}
