// Package katalog defines the domain model for the construction regulation
// catalog: the four-level hierarchy (LG, ULG, Grundtext, positions), the
// position-number addressing scheme, the order-preserving node document type,
// and the persisted record shape shared with the storage backends.
package katalog

// EntityType identifies the hierarchy level of a catalog node or stored record.
type EntityType string

// Supported entity type identifiers used in stored records and filter requests.
const (
	// EntityLG identifies a main group (Leistungsgruppe).
	EntityLG EntityType = "LG"
	// EntityULG identifies a subgroup (Unterleistungsgruppe) nested under an LG.
	EntityULG EntityType = "ULG"
	// EntityGrundtext identifies a base text entry nested under a ULG.
	EntityGrundtext EntityType = "Grundtext"
	// EntityUngeteiltePosition identifies an undivided position attached
	// directly to a Grundtext.
	EntityUngeteiltePosition EntityType = "UngeteiltePosition"
	// EntityFolgeposition identifies a lettered follow-on position refining a
	// Grundtext.
	EntityFolgeposition EntityType = "Folgeposition"
	// EntityUnknown marks a document whose key signature matches no known shape.
	EntityUnknown EntityType = ""
)

// Interchange vocabulary. These member names are a fixed contract with the
// upstream ONLV ingester; filters and the ordering codec address nodes through
// them and must never invent alternatives.
const (
	KeyNumber          = "@_nr"
	KeyFolgeNumber     = "@_ftnr"
	KeyVariant         = "@_mfv"
	KeyLGProperties    = "lg-eigenschaften"
	KeyULGList         = "ulg-liste"
	KeyULG             = "ulg"
	KeyULGProperties   = "ulg-eigenschaften"
	KeyPositions       = "positionen"
	KeyGrundtextList   = "grundtextnr"
	KeyGrundtext       = "grundtext"
	KeyUngeteilte      = "ungeteilteposition"
	KeyFolgeposition   = "folgeposition"
	KeyPosProperties   = "pos-eigenschaften"
	KeyShortText       = "stichwort"
	KeyHeading         = "ueberschrift"
	KeyPreliminaryNote = "vorbemerkung"
	KeyComment         = "kommentar"
	KeyText            = "#text"
)

// Classify infers the hierarchy level of a document from its key signature.
// Storage-fed code paths should prefer the explicit Record.Type stamped at
// ingestion; Classify exists for raw interchange documents and for the
// ordering codec, whose contract is signature-based. A document matching no
// known shape yields EntityUnknown, which is not an error.
func Classify(obj *Object) EntityType {
	if obj == nil {
		return EntityUnknown
	}
	switch {
	case obj.Has(KeyNumber) && obj.Has(KeyLGProperties):
		return EntityLG
	case obj.Has(KeyNumber) && obj.Has(KeyULGProperties):
		return EntityULG
	case obj.Has(KeyNumber) && (obj.Has(KeyGrundtext) || obj.Has(KeyUngeteilte) || obj.Has(KeyFolgeposition)):
		return EntityGrundtext
	case obj.Has(KeyFolgeNumber) && obj.Has(KeyPosProperties):
		return EntityFolgeposition
	case obj.Has(KeyVariant) && obj.Has(KeyPosProperties):
		return EntityUngeteiltePosition
	default:
		return EntityUnknown
	}
}
