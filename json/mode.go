package json

import (
	goserde "github.com/reoring/goserde"
	eng "github.com/reoring/goserde/internal/engine"
)

// mode is the framing of one composite in the text format.
type mode int

const (
	modeObj   mode = iota // {"name":value,...}
	modeList              // [value,...]
	modeMap               // {"key":value,...} for primitive and enum keys
	modeEntry             // bare "key":value inside a map
	modePoly              // ["discriminator",value]
)

func (m mode) String() string {
	switch m {
	case modeObj:
		return "OBJ"
	case modeList:
		return "LIST"
	case modeMap:
		return "MAP"
	case modeEntry:
		return "ENTRY"
	case modePoly:
		return "POLY"
	}
	return "?"
}

// begin and end are the delimiters; 0 means the mode has none.
func (m mode) begin() byte {
	switch m {
	case modeObj, modeMap:
		return '{'
	case modeList, modePoly:
		return '['
	}
	return 0
}

func (m mode) end() byte {
	switch m {
	case modeObj, modeMap:
		return '}'
	case modeList, modePoly:
		return ']'
	}
	return 0
}

func (m mode) beginClass() eng.TokenClass {
	if m.begin() == '{' {
		return eng.ClassBeginObject
	}
	return eng.ClassBeginList
}

func (m mode) endClass() eng.TokenClass {
	if m.end() == '}' {
		return eng.ClassEndObject
	}
	return eng.ClassEndList
}

// switchMode picks the framing of a child composite described by d inside a
// composite framed as current.
func switchMode(current mode, d *goserde.Descriptor, typeArgs []goserde.Described) mode {
	switch d.Kind() {
	case goserde.KindPolymorphic:
		return modePoly
	case goserde.KindList, goserde.KindSet:
		return modeList
	case goserde.KindMap:
		key := d.ElementDescriptor(0)
		if len(typeArgs) > 0 {
			key = typeArgs[0].Descriptor()
		}
		if k := key.Kind(); k.IsPrimitive() || k == goserde.KindEnum {
			return modeMap
		}
		return modeList
	case goserde.KindEntry:
		if current == modeMap {
			return modeEntry
		}
		return modeObj
	}
	return modeObj
}
