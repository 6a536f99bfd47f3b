package core

import (
	"fmt"

	"baukatalog/pkg/katalog"
)

// KeepPositions builds the minimal subtree of lgRoot containing exactly the
// requested positions. Each code is honored independently at insertion time:
// a whole-Grundtext code copies the Grundtext with all its Folgepositionen, a
// lettered code copies the Grundtext with just that one position. Later
// lettered codes for an already-whole Grundtext are no-ops; a later
// whole-Grundtext code never upgrades an earlier partial copy. ULGs and
// Grundtexte appear in the order their codes were first encountered. Codes
// pointing at missing branches are skipped with a diagnostic note, never an
// error. The input tree is not mutated.
func KeepPositions(lgRoot *Object, codes []PositionNumber) (*Object, []string) {
	result := lgRoot.Clone()
	if list, ok := result.ObjectAt(katalog.KeyULGList); ok && list.Has(katalog.KeyULG) {
		list.Set(katalog.KeyULG, []any{})
	}
	if len(codes) == 0 {
		return result, nil
	}

	var notes []string
	addedULGs := make(map[string]*Object)

	for _, code := range codes {
		sourceULG := findByNumber(childULGs(lgRoot), code.ULG)
		if sourceULG == nil {
			notes = append(notes, fmt.Sprintf("ulg %s not found", code.ULG))
			continue
		}

		resultULG, ok := addedULGs[code.ULG]
		if !ok {
			resultULG = sourceULG.Clone()
			pos, ok := resultULG.ObjectAt(katalog.KeyPositions)
			if !ok {
				pos = katalog.NewObject()
				resultULG.Set(katalog.KeyPositions, pos)
			}
			pos.Set(katalog.KeyGrundtextList, []any{})
			appendToList(ensureULGList(result), katalog.KeyULG, resultULG)
			addedULGs[code.ULG] = resultULG
		}

		sourceGT := findByNumber(childGrundtexts(sourceULG), code.Grundtext)
		if sourceGT == nil {
			notes = append(notes, fmt.Sprintf("grundtext %s not found in ulg %s", code.Grundtext, code.ULG))
			continue
		}
		resultPos, _ := resultULG.ObjectAt(katalog.KeyPositions)
		existingGT := findByNumber(childGrundtexts(resultULG), code.Grundtext)

		if code.IsFullGrundtext() {
			if existingGT == nil {
				appendToList(resultPos, katalog.KeyGrundtextList, sourceGT.Clone())
			}
			continue
		}

		if existingGT != nil {
			if findFolgeposition(existingGT, code.Folge) == nil {
				if fp := findFolgeposition(sourceGT, code.Folge); fp != nil {
					appendToList(existingGT, katalog.KeyFolgeposition, fp.Clone())
				}
			}
			continue
		}
		partial := sourceGT.Clone()
		partial.Set(katalog.KeyFolgeposition, []any{})
		if fp := findFolgeposition(sourceGT, code.Folge); fp != nil {
			appendToList(partial, katalog.KeyFolgeposition, fp.Clone())
		} else {
			notes = append(notes, fmt.Sprintf("folgeposition %s not found in grundtext %s%s%s", code.Folge, code.LG, code.ULG, code.Grundtext))
		}
		appendToList(resultPos, katalog.KeyGrundtextList, partial)
	}
	return result, notes
}

// ParsePositionList parses a batch of position number texts, dropping
// malformed entries with a note instead of failing the batch.
func ParsePositionList(texts []string) ([]PositionNumber, []string) {
	codes := make([]PositionNumber, 0, len(texts))
	var notes []string
	for _, text := range texts {
		code, err := katalog.ParsePositionNumber(text)
		if err != nil {
			notes = append(notes, fmt.Sprintf("skipping invalid position number %q", text))
			continue
		}
		codes = append(codes, code)
	}
	return codes, notes
}

func ensureULGList(lg *Object) *Object {
	list, ok := lg.ObjectAt(katalog.KeyULGList)
	if !ok {
		list = katalog.NewObject()
		list.Set(katalog.KeyULG, []any{})
		lg.Set(katalog.KeyULGList, list)
	}
	return list
}

func appendToList(obj *Object, key string, item *Object) {
	list, _ := obj.ListAt(key)
	obj.Set(key, append(list, item))
}

func findByNumber(objs []*Object, nr string) *Object {
	for _, obj := range objs {
		if got, _ := obj.StringAt(katalog.KeyNumber); got == nr {
			return obj
		}
	}
	return nil
}

func findFolgeposition(gt *Object, letter string) *Object {
	for _, fp := range childFolgepositionen(gt) {
		if got, _ := fp.StringAt(katalog.KeyFolgeNumber); got == letter {
			return fp
		}
	}
	return nil
}
