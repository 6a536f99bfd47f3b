package core

import "baukatalog/pkg/katalog"

// canonicalKeyOrder fixes the member sequence the interchange format expects
// for each recognized node shape. Members not listed keep their original
// relative order after the listed ones.
var canonicalKeyOrder = map[EntityType][]string{
	EntityLG:        {katalog.KeyLGProperties, katalog.KeyULGList, katalog.KeyNumber},
	EntityULG:       {katalog.KeyULGProperties, katalog.KeyPositions, katalog.KeyNumber},
	EntityGrundtext: {katalog.KeyGrundtext, katalog.KeyUngeteilte, katalog.KeyFolgeposition, katalog.KeyNumber},
	// Folgeposition and UngeteiltePosition share one serialized shape.
	EntityFolgeposition:      {katalog.KeyPosProperties, katalog.KeyFolgeNumber, katalog.KeyVariant},
	EntityUngeteiltePosition: {katalog.KeyPosProperties, katalog.KeyFolgeNumber, katalog.KeyVariant},
}

// Canonicalize returns a copy of the document with every recognized node
// re-emitted in the canonical key sequence. Unrecognized shapes pass through
// with their members untouched; an unknown shape is not a defect. The
// operation is idempotent and total: it never fails.
func Canonicalize(obj *Object) *Object {
	if obj == nil {
		return nil
	}
	out := katalog.NewObject()
	order := canonicalKeyOrder[katalog.Classify(obj)]
	for _, key := range order {
		if v, ok := obj.Get(key); ok {
			out.Set(key, canonicalizeValue(v))
		}
	}
	for _, key := range obj.Keys() {
		if out.Has(key) {
			continue
		}
		v, _ := obj.Get(key)
		out.Set(key, canonicalizeValue(v))
	}
	return out
}

func canonicalizeValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return Canonicalize(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = canonicalizeValue(item)
		}
		return out
	default:
		return v
	}
}
