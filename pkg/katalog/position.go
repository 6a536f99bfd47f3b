package katalog

// PositionNumber is the parsed form of the compact position address: two
// digits each for LG, ULG and Grundtext, optionally followed by a single
// uppercase letter selecting one Folgeposition.
type PositionNumber struct {
	LG        string
	ULG       string
	Grundtext string
	Folge     string
}

// ParsePositionNumber parses the canonical text form. Only strings matching
// ^\d{6}[A-Z]?$ are accepted; everything else fails with InvalidFormatError.
func ParsePositionNumber(text string) (PositionNumber, error) {
	if len(text) != 6 && len(text) != 7 {
		return PositionNumber{}, InvalidFormatError{Input: text}
	}
	for i := 0; i < 6; i++ {
		if text[i] < '0' || text[i] > '9' {
			return PositionNumber{}, InvalidFormatError{Input: text}
		}
	}
	nr := PositionNumber{
		LG:        text[0:2],
		ULG:       text[2:4],
		Grundtext: text[4:6],
	}
	if len(text) == 7 {
		if text[6] < 'A' || text[6] > 'Z' {
			return PositionNumber{}, InvalidFormatError{Input: text}
		}
		nr.Folge = text[6:7]
	}
	return nr, nil
}

// String renders the canonical 6-or-7 character text form.
func (n PositionNumber) String() string {
	return n.LG + n.ULG + n.Grundtext + n.Folge
}

// IsFullGrundtext reports whether the number addresses the whole Grundtext,
// including all its Folgepositionen, rather than a single lettered position.
func (n PositionNumber) IsFullGrundtext() bool { return n.Folge == "" }

// SiblingOf reports whether two numbers land in the same Grundtext but do not
// address the same position.
func (n PositionNumber) SiblingOf(other PositionNumber) bool {
	return n.LG == other.LG && n.ULG == other.ULG && n.Grundtext == other.Grundtext && n.Folge != other.Folge
}
