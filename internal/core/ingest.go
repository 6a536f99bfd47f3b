package core

import (
	"fmt"
	"strings"

	"baukatalog/pkg/katalog"
)

// German document type labels used in the searchable text of stored rows.
var entityTypeLabels = map[EntityType]string{
	EntityLG:                 "Hauptgruppe",
	EntityULG:                "Untergruppe",
	EntityGrundtext:          "Grundlegende Regel",
	EntityUngeteiltePosition: "Einzelne Position",
	EntityFolgeposition:      "Folgeposition",
}

// BuildRecords flattens a catalog payload (one document per LG) into the rows
// the store persists: one row per node, each carrying its own canonicalized
// document. Rows come out in catalog order: LG, then per ULG the ULG row,
// then per Grundtext first the UngeteiltePositionen (whose row document is
// the whole parent Grundtext), then the Grundtext row, then its
// Folgepositionen. FullNumber concatenates the ancestor numbers and stays
// empty when any part is missing.
func BuildRecords(catalog []*Object) []Record {
	var records []Record
	for _, lg := range catalog {
		records = appendLG(records, lg)
	}
	return records
}

func appendLG(records []Record, lg *Object) []Record {
	lgNr, _ := lg.StringAt(katalog.KeyNumber)
	props, _ := lg.ObjectAt(katalog.KeyLGProperties)
	heading := flattenText(memberOf(props, katalog.KeyHeading))
	preliminary := flattenText(memberOf(props, katalog.KeyPreliminaryNote))
	comment := flattenText(memberOf(props, katalog.KeyComment))

	records = append(records, Record{
		Type:       EntityLG,
		LG:         lgNr,
		FullNumber: lgNr,
		SearchText: fmt.Sprintf("Dokumententyp: %s. Titel: %s. Vorbemerkung: %s. Kommentar: %s",
			entityTypeLabels[EntityLG], heading, preliminary, comment),
		Document: Canonicalize(lg),
	})

	for _, ulg := range childULGs(lg) {
		records = appendULG(records, ulg, lgNr, heading)
	}
	return records
}

func appendULG(records []Record, ulg *Object, lgNr, lgHeading string) []Record {
	ulgNr, _ := ulg.StringAt(katalog.KeyNumber)
	props, _ := ulg.ObjectAt(katalog.KeyULGProperties)
	heading := flattenText(memberOf(props, katalog.KeyHeading))
	preliminary := flattenText(memberOf(props, katalog.KeyPreliminaryNote))
	context := fmt.Sprintf("Hauptgruppe: %s. Untergruppe: %s", lgHeading, heading)

	records = append(records, Record{
		Type:       EntityULG,
		LG:         lgNr,
		ULG:        ulgNr,
		FullNumber: joinNumbers(lgNr, ulgNr),
		SearchText: fmt.Sprintf("Dokumententyp: %s. %s. Vorbemerkung: %s",
			entityTypeLabels[EntityULG], context, preliminary),
		Document: Canonicalize(ulg),
	})

	for _, gt := range childGrundtexts(ulg) {
		records = appendGrundtext(records, gt, lgNr, ulgNr, context)
	}
	return records
}

func appendGrundtext(records []Record, gt *Object, lgNr, ulgNr, ulgContext string) []Record {
	gtNr, _ := gt.StringAt(katalog.KeyNumber)

	// UngeteiltePositionen come first; their row document is the whole
	// parent Grundtext so a single row read stays self-sufficient.
	if ups, ok := gt.ListAt(katalog.KeyUngeteilte); ok {
		for _, up := range objectsOf(ups) {
			posNr, _ := up.StringAt(katalog.KeyVariant)
			props, _ := up.ObjectAt(katalog.KeyPosProperties)
			records = append(records, Record{
				Type:       EntityUngeteiltePosition,
				LG:         lgNr,
				ULG:        ulgNr,
				Grundtext:  gtNr,
				Position:   posNr,
				FullNumber: joinNumbers(lgNr, ulgNr, gtNr),
				ShortText:  flattenText(memberOf(props, katalog.KeyShortText)),
				SearchText: fmt.Sprintf("Dokumententyp: %s. %s. Position: %s",
					entityTypeLabels[EntityUngeteiltePosition], ulgContext, flattenText(props)),
				Document: Canonicalize(gt),
			})
		}
	}

	if !gt.Has(katalog.KeyGrundtext) {
		return records
	}
	gtContext := fmt.Sprintf("%s. Grundtext: %s", ulgContext, flattenText(memberOf(gt, katalog.KeyGrundtext)))
	records = append(records, Record{
		Type:       EntityGrundtext,
		LG:         lgNr,
		ULG:        ulgNr,
		Grundtext:  gtNr,
		FullNumber: joinNumbers(lgNr, ulgNr, gtNr),
		SearchText: fmt.Sprintf("Dokumententyp: %s. %s", entityTypeLabels[EntityGrundtext], gtContext),
		Document:   Canonicalize(gt),
	})

	for _, fp := range childFolgepositionen(gt) {
		posNr, _ := fp.StringAt(katalog.KeyFolgeNumber)
		props, _ := fp.ObjectAt(katalog.KeyPosProperties)
		records = append(records, Record{
			Type:       EntityFolgeposition,
			LG:         lgNr,
			ULG:        ulgNr,
			Grundtext:  gtNr,
			Position:   posNr,
			FullNumber: joinNumbers(lgNr, ulgNr, gtNr, posNr),
			ShortText:  flattenText(memberOf(props, katalog.KeyShortText)),
			SearchText: fmt.Sprintf("Dokumententyp: %s. %s. %s",
				entityTypeLabels[EntityFolgeposition], gtContext, flattenText(props)),
			Document: Canonicalize(fp),
		})
	}
	return records
}

// joinNumbers concatenates the parts, or yields "" when any part is empty.
func joinNumbers(parts ...string) string {
	for _, p := range parts {
		if p == "" {
			return ""
		}
	}
	return strings.Join(parts, "")
}

func memberOf(obj *Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

// flattenText collapses a document fragment into plain searchable text. A
// "#text" member wins over the rest of its object; scalars other than
// strings contribute nothing.
func flattenText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, flattenText(item))
		}
		return strings.Join(parts, " ")
	case *Object:
		if text := flattenText(memberOf(t, katalog.KeyText)); text != "" {
			return text
		}
		parts := make([]string, 0, t.Len())
		for _, key := range t.Keys() {
			parts = append(parts, flattenText(memberOf(t, key)))
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
