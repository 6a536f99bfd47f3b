package core

import (
	"strings"
	"testing"

	"baukatalog/pkg/katalog"
)

func TestBuildRecordsRowOrderAndNumbers(t *testing.T) {
	records := BuildRecords([]*Object{lgFixtureDoc(t)})

	type row struct {
		typ  EntityType
		full string
	}
	want := []row{
		{EntityLG, "00"},
		{EntityULG, "0011"},
		{EntityGrundtext, "001101"},
		{EntityFolgeposition, "001101A"},
		{EntityFolgeposition, "001101B"},
		{EntityFolgeposition, "001101C"},
		{EntityGrundtext, "001103"},
		{EntityFolgeposition, "001103A"},
		{EntityFolgeposition, "001103B"},
		{EntityULG, "0012"},
		{EntityGrundtext, "001201"},
		{EntityFolgeposition, "001201A"},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(records))
	}
	for i, w := range want {
		if records[i].Type != w.typ || records[i].FullNumber != w.full {
			t.Fatalf("row %d = %s %q, want %s %q", i, records[i].Type, records[i].FullNumber, w.typ, w.full)
		}
	}
}

func TestBuildRecordsStampsAncestorNumbers(t *testing.T) {
	records := BuildRecords([]*Object{lgFixtureDoc(t)})
	for _, rec := range records {
		if rec.FullNumber == "001103B" {
			if rec.LG != "00" || rec.ULG != "11" || rec.Grundtext != "03" || rec.Position != "B" {
				t.Fatalf("ancestor numbers = %+v", rec)
			}
			if rec.ShortText != "Decke" {
				t.Fatalf("short text = %q", rec.ShortText)
			}
			return
		}
	}
	t.Fatalf("row 001103B missing")
}

func TestBuildRecordsSearchableText(t *testing.T) {
	records := BuildRecords([]*Object{lgFixtureDoc(t)})

	lg := records[0]
	if lg.SearchText != "Dokumententyp: Hauptgruppe. Titel: Allgemeine Bestimmungen. Vorbemerkung: Gilt fuer alle Leistungen. Kommentar: Stand 2023" {
		t.Fatalf("lg search text = %q", lg.SearchText)
	}

	ulg := records[1]
	if !strings.HasPrefix(ulg.SearchText, "Dokumententyp: Untergruppe. Hauptgruppe: Allgemeine Bestimmungen. Untergruppe: Betonarbeiten.") {
		t.Fatalf("ulg search text = %q", ulg.SearchText)
	}

	gt := records[2]
	if !strings.Contains(gt.SearchText, "Dokumententyp: Grundlegende Regel.") ||
		!strings.Contains(gt.SearchText, "Grundtext: Beton liefern und einbauen") {
		t.Fatalf("grundtext search text = %q", gt.SearchText)
	}

	fp := records[3]
	if !strings.Contains(fp.SearchText, "Dokumententyp: Folgeposition.") ||
		!strings.Contains(fp.SearchText, "C20/25") {
		t.Fatalf("folgeposition search text = %q", fp.SearchText)
	}
}

func TestBuildRecordsUngeteiltePositionRows(t *testing.T) {
	raw := `{
	  "lg-eigenschaften": {"ueberschrift": {"#text": "Erdarbeiten"}},
	  "ulg-liste": {"ulg": {
	    "ulg-eigenschaften": {"ueberschrift": {"#text": "Aushub"}},
	    "positionen": {"grundtextnr": {
	      "ungeteilteposition": [
	        {"pos-eigenschaften": {"stichwort": "Humus abtragen"}, "@_mfv": "01"}
	      ],
	      "@_nr": "02"
	    }},
	    "@_nr": "20"
	  }},
	  "@_nr": "07"
	}`
	doc, err := katalog.DecodeDocument([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	records := BuildRecords([]*Object{doc})
	if len(records) != 3 {
		t.Fatalf("expected lg, ulg and one position row, got %d", len(records))
	}
	up := records[2]
	if up.Type != EntityUngeteiltePosition {
		t.Fatalf("row type = %s", up.Type)
	}
	if up.FullNumber != "072002" || up.Position != "01" {
		t.Fatalf("numbers = %q / %q", up.FullNumber, up.Position)
	}
	if up.ShortText != "Humus abtragen" {
		t.Fatalf("short text = %q", up.ShortText)
	}
	// The row document is the whole parent grundtext node.
	if !up.Document.Has(katalog.KeyUngeteilte) {
		t.Fatalf("row document must be the parent grundtext")
	}
	if !strings.Contains(up.SearchText, "Dokumententyp: Einzelne Position.") {
		t.Fatalf("search text = %q", up.SearchText)
	}
}

func TestBuildRecordsEmptyPartsYieldEmptyFullNumber(t *testing.T) {
	raw := `{
	  "lg-eigenschaften": {},
	  "ulg-liste": {"ulg": {
	    "ulg-eigenschaften": {},
	    "positionen": {"grundtextnr": {
	      "grundtext": {"#text": "ohne Nummer"},
	      "folgeposition": [],
	      "@_nr": ""
	    }},
	    "@_nr": "20"
	  }},
	  "@_nr": "07"
	}`
	doc, err := katalog.DecodeDocument([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	records := BuildRecords([]*Object{doc})
	gt := records[len(records)-1]
	if gt.Type != EntityGrundtext {
		t.Fatalf("last row = %s", gt.Type)
	}
	if gt.FullNumber != "" {
		t.Fatalf("a missing part must void the full number, got %q", gt.FullNumber)
	}
}

func TestFlattenText(t *testing.T) {
	doc, err := katalog.DecodeDocument([]byte(`{
	  "with-text": {"#text": "wins", "other": "ignored"},
	  "plain": "  padded  ",
	  "list": ["a", {"#text": "b"}],
	  "number": 7
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := flattenText(memberOf(doc, "with-text")); got != "wins" {
		t.Fatalf("#text should win, got %q", got)
	}
	if got := flattenText(memberOf(doc, "plain")); got != "padded" {
		t.Fatalf("strings should be trimmed, got %q", got)
	}
	if got := flattenText(memberOf(doc, "list")); got != "a b" {
		t.Fatalf("lists should join with spaces, got %q", got)
	}
	if got := flattenText(memberOf(doc, "number")); got != "" {
		t.Fatalf("non-string scalars contribute nothing, got %q", got)
	}
}
