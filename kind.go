package goserde

// Kind is the structural kind of a Descriptor. The set is closed: formats
// switch over it exhaustively.
type Kind int

const (
	KindBool Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindRune
	KindString

	KindEnum // Named constants encoded by element name.

	KindClass  // Record with named elements.
	KindObject // Singleton without state.
	KindList
	KindSet
	KindMap
	KindEntry // Key/value pair; framed inline when it appears inside a map.

	KindPolymorphic // Discriminator + concrete payload.
)

var kindNames = [...]string{
	KindBool:        "BOOLEAN",
	KindInt8:        "BYTE",
	KindInt16:       "SHORT",
	KindInt32:       "INT",
	KindInt64:       "LONG",
	KindFloat32:     "FLOAT",
	KindFloat64:     "DOUBLE",
	KindRune:        "CHAR",
	KindString:      "STRING",
	KindEnum:        "ENUM",
	KindClass:       "CLASS",
	KindObject:      "OBJECT",
	KindList:        "LIST",
	KindSet:         "SET",
	KindMap:         "MAP",
	KindEntry:       "ENTRY",
	KindPolymorphic: "POLYMORPHIC",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// IsPrimitive reports whether values of this kind are scalars.
func (k Kind) IsPrimitive() bool { return k >= KindBool && k <= KindString }

// IsStructure reports whether values of this kind are composites opened with
// BeginStructure.
func (k Kind) IsStructure() bool { return k >= KindClass && k <= KindPolymorphic }

// IsCollection reports whether the kind has an element count known only at
// runtime (LIST, SET, MAP).
func (k Kind) IsCollection() bool { return k == KindList || k == KindSet || k == KindMap }
