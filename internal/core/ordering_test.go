package core

import (
	"testing"

	"baukatalog/pkg/katalog"
)

func TestCanonicalizeReordersRecognizedShapes(t *testing.T) {
	scrambled, err := katalog.DecodeDocument([]byte(`{
	  "@_nr": "00",
	  "extra": "kept",
	  "ulg-liste": {"ulg": [
	    {"@_nr": "11", "positionen": {"grundtextnr": [
	      {"@_nr": "01", "folgeposition": [
	        {"@_ftnr": "A", "pos-eigenschaften": {"stichwort": "x"}}
	      ], "grundtext": {"#text": "t"}}
	    ]}, "ulg-eigenschaften": {}}
	  ]},
	  "lg-eigenschaften": {}
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := Canonicalize(scrambled)

	want := []string{"lg-eigenschaften", "ulg-liste", "@_nr", "extra"}
	if !equalStrings(got.Keys(), want) {
		t.Fatalf("lg keys = %v, want %v", got.Keys(), want)
	}

	ulg := childULGs(got)[0]
	if !equalStrings(ulg.Keys(), []string{"ulg-eigenschaften", "positionen", "@_nr"}) {
		t.Fatalf("ulg keys = %v", ulg.Keys())
	}
	gt := childGrundtexts(ulg)[0]
	if !equalStrings(gt.Keys(), []string{"grundtext", "folgeposition", "@_nr"}) {
		t.Fatalf("grundtext keys = %v", gt.Keys())
	}
	fp := childFolgepositionen(gt)[0]
	if !equalStrings(fp.Keys(), []string{"pos-eigenschaften", "@_ftnr"}) {
		t.Fatalf("folgeposition keys = %v", fp.Keys())
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	doc := lgFixtureDoc(t)
	once := Canonicalize(doc)
	twice := Canonicalize(once)
	if encodeDoc(t, once) != encodeDoc(t, twice) {
		t.Fatalf("second canonicalization changed the document")
	}
}

func TestCanonicalizeLeavesUnknownShapesAlone(t *testing.T) {
	doc, err := katalog.DecodeDocument([]byte(`{"z":"1","a":"2","m":"3"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := Canonicalize(doc)
	if !equalStrings(got.Keys(), []string{"z", "a", "m"}) {
		t.Fatalf("unknown shape reordered: %v", got.Keys())
	}
}

func TestCanonicalizeDoesNotMutateInput(t *testing.T) {
	doc, err := katalog.DecodeDocument([]byte(`{"@_nr":"00","ulg-liste":{"ulg":[]},"lg-eigenschaften":{}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	before := encodeDoc(t, doc)
	_ = Canonicalize(doc)
	if encodeDoc(t, doc) != before {
		t.Fatalf("input mutated")
	}
}

func TestCanonicalizeNil(t *testing.T) {
	if Canonicalize(nil) != nil {
		t.Fatalf("nil in, nil out")
	}
}
