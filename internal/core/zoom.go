package core

import (
	"fmt"

	"baukatalog/pkg/katalog"
)

// ZoomRequest narrows a catalog subtree to a single child entity. Value is
// compared against "@_nr" (ULG, Grundtext targets) or "@_ftnr"
// (Folgeposition target). ULG and Grundtext optionally scope the search to
// one ancestor branch; an empty scope means "search everywhere, first match
// wins".
type ZoomRequest struct {
	Target    EntityType
	Value     string
	ULG       string
	Grundtext string
}

// Zoom prunes root down to the single branch holding the requested entity.
// rootType is the explicit level of root; pass EntityUnknown to infer it from
// the key signature. The input is never mutated.
//
// A missing entity is not an error: the relevant child containers come back
// empty and a diagnostic note is returned for logging. Only a target level
// unreachable from the root's level fails, with InvalidTargetTypeError.
func Zoom(root *Object, rootType EntityType, req ZoomRequest) (*Object, []string, error) {
	if rootType == EntityUnknown {
		rootType = katalog.Classify(root)
	}
	out := root.Clone()
	var notes []string

	switch rootType {
	case EntityLG:
		switch req.Target {
		case EntityULG:
			notes = zoomULGList(out, func(ulgs []any) []any {
				return firstMatch(ulgs, katalog.KeyNumber, req.Value)
			})
		case EntityGrundtext:
			notes = zoomULGList(out, func(ulgs []any) []any {
				return keepFirstULGWith(ulgs, req.ULG, func(ulg *Object) bool {
					return zoomGrundtextList(ulg, func(gts []any) []any {
						return firstMatch(gts, katalog.KeyNumber, req.Value)
					})
				})
			})
		case EntityFolgeposition:
			notes = zoomULGList(out, func(ulgs []any) []any {
				return keepFirstULGWith(ulgs, req.ULG, func(ulg *Object) bool {
					return zoomGrundtextList(ulg, func(gts []any) []any {
						return keepFirstGrundtextWith(gts, req.Grundtext, req.Value)
					})
				})
			})
		default:
			return nil, nil, katalog.InvalidTargetTypeError{Root: rootType, Target: req.Target}
		}
	case EntityULG:
		switch req.Target {
		case EntityGrundtext:
			if !zoomGrundtextList(out, func(gts []any) []any {
				return firstMatch(gts, katalog.KeyNumber, req.Value)
			}) {
				notes = append(notes, fmt.Sprintf("grundtext %s not found", req.Value))
			}
		case EntityFolgeposition:
			if !zoomGrundtextList(out, func(gts []any) []any {
				return keepFirstGrundtextWith(gts, req.Grundtext, req.Value)
			}) {
				notes = append(notes, fmt.Sprintf("folgeposition %s not found", req.Value))
			}
		default:
			return nil, nil, katalog.InvalidTargetTypeError{Root: rootType, Target: req.Target}
		}
	case EntityGrundtext:
		if req.Target != EntityFolgeposition {
			return nil, nil, katalog.InvalidTargetTypeError{Root: rootType, Target: req.Target}
		}
		fps, ok := out.ListAt(katalog.KeyFolgeposition)
		if !ok {
			fps = nil
		}
		kept := firstMatch(fps, katalog.KeyFolgeNumber, req.Value)
		out.Set(katalog.KeyFolgeposition, kept)
		if len(kept) == 0 {
			notes = append(notes, fmt.Sprintf("folgeposition %s not found", req.Value))
		}
	default:
		return nil, nil, katalog.InvalidTargetTypeError{Root: rootType, Target: req.Target}
	}
	return out, notes, nil
}

// zoomULGList replaces the LG's ULG list with filter(ulgs). A missing
// "ulg-liste"/"ulg" pair is repaired to an empty list and noted.
func zoomULGList(lg *Object, filter func([]any) []any) []string {
	list, ok := lg.ObjectAt(katalog.KeyULGList)
	if !ok {
		repaired := katalog.NewObject()
		repaired.Set(katalog.KeyULG, []any{})
		lg.Set(katalog.KeyULGList, repaired)
		return []string{"lg carries no ulg list"}
	}
	ulgs, ok := list.ListAt(katalog.KeyULG)
	if !ok {
		list.Set(katalog.KeyULG, []any{})
		return []string{"lg carries no ulg list"}
	}
	kept := filter(ulgs)
	list.Set(katalog.KeyULG, kept)
	if len(kept) == 0 {
		return []string{"target not found under any ulg"}
	}
	return nil
}

// zoomGrundtextList replaces the ULG's Grundtext list with filter(gts) and
// reports whether anything survived. A missing "positionen"/"grundtextnr"
// pair is repaired to an empty list.
func zoomGrundtextList(ulg *Object, filter func([]any) []any) bool {
	pos, ok := ulg.ObjectAt(katalog.KeyPositions)
	if !ok {
		repaired := katalog.NewObject()
		repaired.Set(katalog.KeyGrundtextList, []any{})
		ulg.Set(katalog.KeyPositions, repaired)
		return false
	}
	gts, ok := pos.ListAt(katalog.KeyGrundtextList)
	if !ok {
		pos.Set(katalog.KeyGrundtextList, []any{})
		return false
	}
	kept := filter(gts)
	pos.Set(katalog.KeyGrundtextList, kept)
	return len(kept) > 0
}

// keepFirstULGWith visits ULGs in order, skipping those outside the optional
// scope, and keeps the first one where descend succeeds. descend mutates the
// visited ULG in place when it matches.
func keepFirstULGWith(ulgs []any, scope string, descend func(*Object) bool) []any {
	for _, item := range ulgs {
		ulg, ok := item.(*Object)
		if !ok {
			continue
		}
		if scope != "" {
			if nr, _ := ulg.StringAt(katalog.KeyNumber); nr != scope {
				continue
			}
		}
		if descend(ulg) {
			return []any{ulg}
		}
	}
	return []any{}
}

// keepFirstGrundtextWith keeps the first Grundtext (within the optional
// scope) holding the requested Folgeposition, pruned to that one position.
func keepFirstGrundtextWith(gts []any, scope, letter string) []any {
	for _, item := range gts {
		gt, ok := item.(*Object)
		if !ok {
			continue
		}
		if scope != "" {
			if nr, _ := gt.StringAt(katalog.KeyNumber); nr != scope {
				continue
			}
		}
		fps, ok := gt.ListAt(katalog.KeyFolgeposition)
		if !ok {
			continue
		}
		kept := firstMatch(fps, katalog.KeyFolgeNumber, letter)
		if len(kept) > 0 {
			gt.Set(katalog.KeyFolgeposition, kept)
			return []any{gt}
		}
	}
	return []any{}
}

// firstMatch returns a list holding only the first entity whose key equals
// value, or an empty list.
func firstMatch(entities []any, key, value string) []any {
	for _, item := range entities {
		obj, ok := item.(*Object)
		if !ok {
			continue
		}
		if got, _ := obj.StringAt(key); got == value {
			return []any{obj}
		}
	}
	return []any{}
}

// ZoomCandidates counts the branches of root where the requested entity
// occurs, honoring the request's scopes. The service layer uses it to reject
// unscoped requests that would silently pick the first of several matches.
func ZoomCandidates(root *Object, rootType EntityType, req ZoomRequest) int {
	if rootType == EntityUnknown {
		rootType = katalog.Classify(root)
	}
	switch rootType {
	case EntityLG:
		ulgs := childULGs(root)
		switch req.Target {
		case EntityULG:
			return countMatches(ulgs, katalog.KeyNumber, req.Value)
		case EntityGrundtext:
			n := 0
			for _, ulg := range scoped(ulgs, katalog.KeyNumber, req.ULG) {
				n += countMatches(childGrundtexts(ulg), katalog.KeyNumber, req.Value)
			}
			return n
		case EntityFolgeposition:
			n := 0
			for _, ulg := range scoped(ulgs, katalog.KeyNumber, req.ULG) {
				for _, gt := range scoped(childGrundtexts(ulg), katalog.KeyNumber, req.Grundtext) {
					n += countMatches(childFolgepositionen(gt), katalog.KeyFolgeNumber, req.Value)
				}
			}
			return n
		}
	case EntityULG:
		switch req.Target {
		case EntityGrundtext:
			return countMatches(childGrundtexts(root), katalog.KeyNumber, req.Value)
		case EntityFolgeposition:
			n := 0
			for _, gt := range scoped(childGrundtexts(root), katalog.KeyNumber, req.Grundtext) {
				n += countMatches(childFolgepositionen(gt), katalog.KeyFolgeNumber, req.Value)
			}
			return n
		}
	case EntityGrundtext:
		if req.Target == EntityFolgeposition {
			return countMatches(childFolgepositionen(root), katalog.KeyFolgeNumber, req.Value)
		}
	}
	return 0
}

func childULGs(lg *Object) []*Object {
	list, ok := lg.ObjectAt(katalog.KeyULGList)
	if !ok {
		return nil
	}
	items, _ := list.ListAt(katalog.KeyULG)
	return objectsOf(items)
}

func childGrundtexts(ulg *Object) []*Object {
	pos, ok := ulg.ObjectAt(katalog.KeyPositions)
	if !ok {
		return nil
	}
	items, _ := pos.ListAt(katalog.KeyGrundtextList)
	return objectsOf(items)
}

func childFolgepositionen(gt *Object) []*Object {
	items, _ := gt.ListAt(katalog.KeyFolgeposition)
	return objectsOf(items)
}

func objectsOf(items []any) []*Object {
	out := make([]*Object, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(*Object); ok {
			out = append(out, obj)
		}
	}
	return out
}

func scoped(objs []*Object, key, scope string) []*Object {
	if scope == "" {
		return objs
	}
	out := objs[:0:0]
	for _, obj := range objs {
		if nr, _ := obj.StringAt(key); nr == scope {
			out = append(out, obj)
		}
	}
	return out
}

func countMatches(objs []*Object, key, value string) int {
	n := 0
	for _, obj := range objs {
		if got, _ := obj.StringAt(key); got == value {
			n++
		}
	}
	return n
}
