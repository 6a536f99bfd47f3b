package core

import (
	"context"
	"errors"
	"sort"
	"testing"

	"baukatalog/pkg/katalog"
)

// fakeStore is an in-memory katalog.Store for exercising the service and the
// reconstruction path without a database.
type fakeStore struct {
	records []Record
	failOps bool
}

var errStoreDown = errors.New("store down")

func (s *fakeStore) PutRecords(_ context.Context, records []Record) error {
	if s.failOps {
		return errStoreDown
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *fakeStore) GetByFullNumber(_ context.Context, fullNumber string) (Record, bool, error) {
	if s.failOps {
		return Record{}, false, errStoreDown
	}
	for _, rec := range s.records {
		if rec.FullNumber == fullNumber {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

func (s *fakeStore) List(_ context.Context, q RecordQuery) ([]Record, error) {
	if s.failOps {
		return nil, errStoreDown
	}
	var out []Record
	for _, rec := range s.records {
		if q.Type != katalog.EntityUnknown && rec.Type != q.Type {
			continue
		}
		if len(q.LGNumbers) > 0 {
			found := false
			for _, lg := range q.LGNumbers {
				if rec.LG == lg {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if q.ULG != "" && rec.ULG != q.ULG {
			continue
		}
		if q.Grundtext != "" && rec.Grundtext != q.Grundtext {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullNumber < out[j].FullNumber })
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *fakeStore) Count(ctx context.Context, q RecordQuery) (int, error) {
	q.Limit, q.Offset = 0, 0
	records, err := s.List(ctx, q)
	return len(records), err
}

func (s *fakeStore) Close() error { return nil }

var _ Store = (*fakeStore)(nil)

// seededStore ingests the fixture catalog into a fresh fake store.
func seededStore(t *testing.T) *fakeStore {
	t.Helper()
	store := &fakeStore{}
	records := BuildRecords([]*Object{lgFixtureDoc(t)})
	if err := store.PutRecords(context.Background(), records); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

// lgFixture is one LG subtree in interchange shape. Grundtext "01" occurs
// under both ULGs so scope handling is observable.
const lgFixture = `{
  "lg-eigenschaften": {"ueberschrift": {"#text": "Allgemeine Bestimmungen"}, "vorbemerkung": "Gilt fuer alle Leistungen", "kommentar": "Stand 2023"},
  "ulg-liste": {"ulg": [
    {
      "ulg-eigenschaften": {"ueberschrift": {"#text": "Betonarbeiten"}, "vorbemerkung": "VB 11"},
      "positionen": {"grundtextnr": [
        {
          "grundtext": {"#text": "Beton liefern und einbauen"},
          "folgeposition": [
            {"pos-eigenschaften": {"stichwort": "C20/25"}, "@_ftnr": "A"},
            {"pos-eigenschaften": {"stichwort": "C25/30"}, "@_ftnr": "B"},
            {"pos-eigenschaften": {"stichwort": "C30/37"}, "@_ftnr": "C"}
          ],
          "@_nr": "01"
        },
        {
          "grundtext": {"#text": "Schalung herstellen"},
          "folgeposition": [
            {"pos-eigenschaften": {"stichwort": "Wand"}, "@_ftnr": "A"},
            {"pos-eigenschaften": {"stichwort": "Decke"}, "@_ftnr": "B"}
          ],
          "@_nr": "03"
        }
      ]},
      "@_nr": "11"
    },
    {
      "ulg-eigenschaften": {"ueberschrift": {"#text": "Abbrucharbeiten"}},
      "positionen": {"grundtextnr": [
        {
          "grundtext": {"#text": "Mauerwerk abbrechen"},
          "folgeposition": [
            {"pos-eigenschaften": {"stichwort": "Ziegel"}, "@_ftnr": "A"}
          ],
          "@_nr": "01"
        }
      ]},
      "@_nr": "12"
    }
  ]},
  "@_nr": "00"
}`

func lgFixtureDoc(t *testing.T) *Object {
	t.Helper()
	doc, err := katalog.DecodeDocument([]byte(lgFixture))
	if err != nil {
		t.Fatalf("decode lg fixture: %v", err)
	}
	return doc
}

func encodeDoc(t *testing.T, obj *Object) string {
	t.Helper()
	b, err := obj.MarshalJSON()
	if err != nil {
		t.Fatalf("encode document: %v", err)
	}
	return string(b)
}

// grundtextNumbers lists the "@_nr" values of the Grundtexte under a ULG.
func grundtextNumbers(ulg *Object) []string {
	var out []string
	for _, gt := range childGrundtexts(ulg) {
		nr, _ := gt.StringAt(katalog.KeyNumber)
		out = append(out, nr)
	}
	return out
}

// folgeLetters lists the "@_ftnr" values of a Grundtext's Folgepositionen.
func folgeLetters(gt *Object) []string {
	var out []string
	for _, fp := range childFolgepositionen(gt) {
		letter, _ := fp.StringAt(katalog.KeyFolgeNumber)
		out = append(out, letter)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
