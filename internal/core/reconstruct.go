package core

import (
	"context"
	"sort"

	"baukatalog/pkg/katalog"
)

type grundtextKey struct {
	lg, ulg, gt string
}

type ulgKey struct {
	lg, ulg string
}

// AssemblePositions rebuilds, per LG, the minimal subtree covering the
// requested position numbers from individually stored rows. Children embedded
// in a stored row's document are discarded; the hierarchy is joined fresh
// from the sibling rows of each level, so the result reflects exactly what
// the store holds per node. Invalid numbers are skipped with a note. LGs
// whose filtered subtree ends up empty are dropped; results are ordered by LG
// number.
//
// A storage failure aborts the whole call with StorageUnavailableError;
// partial results are never returned.
func AssemblePositions(ctx context.Context, store Store, texts []string) ([]*Object, []string, error) {
	codes, notes := ParsePositionList(texts)
	if len(codes) == 0 {
		return nil, notes, nil
	}

	lgSet := make(map[string]bool)
	for _, code := range codes {
		lgSet[code.LG] = true
	}
	lgNumbers := make([]string, 0, len(lgSet))
	for lg := range lgSet {
		lgNumbers = append(lgNumbers, lg)
	}
	sort.Strings(lgNumbers)

	fetch := func(t EntityType, op string) ([]Record, error) {
		records, err := store.List(ctx, RecordQuery{Type: t, LGNumbers: lgNumbers})
		if err != nil {
			return nil, katalog.StorageUnavailableError{Op: op, Err: err}
		}
		return records, nil
	}
	lgRecords, err := fetch(EntityLG, "list lgs")
	if err != nil {
		return nil, notes, err
	}
	ulgRecords, err := fetch(EntityULG, "list ulgs")
	if err != nil {
		return nil, notes, err
	}
	gtRecords, err := fetch(EntityGrundtext, "list grundtexte")
	if err != nil {
		return nil, notes, err
	}
	fpRecords, err := fetch(EntityFolgeposition, "list folgepositionen")
	if err != nil {
		return nil, notes, err
	}

	fpsByGT := make(map[grundtextKey][]any)
	for _, rec := range fpRecords {
		doc := documentOf(rec)
		doc.Set(katalog.KeyFolgeNumber, rec.Position)
		key := grundtextKey{rec.LG, rec.ULG, rec.Grundtext}
		fpsByGT[key] = append(fpsByGT[key], doc)
	}

	gtsByULG := make(map[ulgKey][]any)
	for _, rec := range gtRecords {
		doc := documentOf(rec)
		doc.Set(katalog.KeyNumber, rec.Grundtext)
		fps := fpsByGT[grundtextKey{rec.LG, rec.ULG, rec.Grundtext}]
		if fps == nil {
			fps = []any{}
		}
		doc.Set(katalog.KeyFolgeposition, fps)
		key := ulgKey{rec.LG, rec.ULG}
		gtsByULG[key] = append(gtsByULG[key], doc)
	}

	ulgsByLG := make(map[string][]any)
	for _, rec := range ulgRecords {
		doc := documentOf(rec)
		doc.Set(katalog.KeyNumber, rec.ULG)
		pos, ok := doc.ObjectAt(katalog.KeyPositions)
		if !ok {
			pos = katalog.NewObject()
			doc.Set(katalog.KeyPositions, pos)
		}
		gts := gtsByULG[ulgKey{rec.LG, rec.ULG}]
		if gts == nil {
			gts = []any{}
		}
		pos.Set(katalog.KeyGrundtextList, gts)
		ulgsByLG[rec.LG] = append(ulgsByLG[rec.LG], doc)
	}

	assembled := make(map[string]*Object)
	for _, rec := range lgRecords {
		doc := documentOf(rec)
		doc.Set(katalog.KeyNumber, rec.LG)
		list, ok := doc.ObjectAt(katalog.KeyULGList)
		if !ok {
			list = katalog.NewObject()
			doc.Set(katalog.KeyULGList, list)
		}
		ulgs := ulgsByLG[rec.LG]
		if ulgs == nil {
			ulgs = []any{}
		}
		list.Set(katalog.KeyULG, ulgs)
		assembled[rec.LG] = doc
	}

	var results []*Object
	for _, lg := range lgNumbers {
		root, ok := assembled[lg]
		if !ok {
			notes = append(notes, "lg "+lg+" not found")
			continue
		}
		var partition []PositionNumber
		for _, code := range codes {
			if code.LG == lg {
				partition = append(partition, code)
			}
		}
		filtered, keepNotes := KeepPositions(root, partition)
		notes = append(notes, keepNotes...)
		if len(childULGs(filtered)) == 0 {
			continue
		}
		results = append(results, filtered)
	}
	return results, notes, nil
}

// documentOf returns a private copy of the record's document; stores may hand
// out shared pointers.
func documentOf(rec Record) *Object {
	if rec.Document == nil {
		return katalog.NewObject()
	}
	return rec.Document.Clone()
}
