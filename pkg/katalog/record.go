package katalog

// Record is the flat persisted form of one catalog node. A record embeds, at
// write time, its full descendant subtree in Document, so a single row
// answers "show me this entity and everything below it" without a join. The
// reconstruction path deliberately ignores embedded children and rebuilds
// them from sibling rows; see core.AssemblePositions.
type Record struct {
	// Type is the explicit hierarchy discriminant stamped at ingestion.
	Type EntityType `json:"entity_type"`
	// LG is always populated; the remaining keys only down to the record's
	// own level.
	LG        string `json:"lg_nr"`
	ULG       string `json:"ulg_nr,omitempty"`
	Grundtext string `json:"grundtext_nr,omitempty"`
	// Position holds the Folgeposition letter or the UngeteiltePosition
	// variant tag.
	Position string `json:"position_nr,omitempty"`
	// FullNumber concatenates the populated ancestor numbers (plus the
	// position letter for Folgepositionen). It may denote an LG-only or
	// ULG-only prefix and is therefore wider than PositionNumber.
	FullNumber string `json:"full_nr"`
	// ShortText carries the position keyword when present.
	ShortText string `json:"short_text,omitempty"`
	// SearchText is the flattened text used by the (out-of-scope) search
	// layer; kept on the record so stores can serve it as a plain column.
	SearchText string `json:"searchable_text,omitempty"`
	// Document is the node's own interchange document, order preserved.
	Document *Object `json:"entity_json"`
}

// RecordQuery selects records by exact keys. Reads are always by entity type
// plus a subset of the number columns, or by full number.
type RecordQuery struct {
	Type EntityType
	// LGNumbers restricts to the given LG set (bulk reconstruction reads).
	LGNumbers []string
	// ULG/Grundtext narrow within an LG when set.
	ULG       string
	Grundtext string
	// Limit/Offset paginate list reads; zero Limit means no limit.
	Limit  int
	Offset int
}
