package json

import (
	"strconv"

	goserde "github.com/reoring/goserde"
)

var (
	elementDescriptor = goserde.NewDescriptor("JsonElement", goserde.KindClass).MustBuild()
	keyDescriptor     = goserde.PrimitiveDescriptor("string", goserde.KindString)
	objectDescriptor  = goserde.MapDescriptor(keyDescriptor, elementDescriptor)
	arrayDescriptor   = goserde.ListDescriptor(elementDescriptor)
)

// ElementSerializer serializes trees. Encoding works with any format:
// objects travel as string-keyed maps and bare literals as the narrowest of
// bool, int64, float64 or string. Decoding needs a decoder that implements
// ElementDecoder, which only the text format does.
func ElementSerializer() goserde.Serializer[Element] { return elementSerializer{} }

type elementSerializer struct{}

func (elementSerializer) Descriptor() *goserde.Descriptor { return elementDescriptor }

func (s elementSerializer) Serialize(enc goserde.Encoder, e Element) error {
	if ee, ok := enc.(ElementEncoder); ok {
		return ee.EncodeJSONElement(e)
	}
	switch e := e.(type) {
	case nil, *Null:
		return enc.EncodeNull()
	case *Primitive:
		return encodePrimitive(enc, e)
	case *Object:
		c, err := enc.BeginCollection(objectDescriptor, e.Len(), keyType{}, s)
		if err != nil {
			return err
		}
		i := 0
		for k, v := range e.All() {
			if err = goserde.EncodeStringElement(c, objectDescriptor, i, k); err != nil {
				break
			}
			if err = goserde.EncodeSerializableElement[Element](c, objectDescriptor, i+1, s, v); err != nil {
				break
			}
			i += 2
		}
		return goserde.EndEncoding(c, objectDescriptor, err)
	case *Array:
		c, err := enc.BeginCollection(arrayDescriptor, len(e.Items), s)
		if err != nil {
			return err
		}
		for i, v := range e.Items {
			if err = goserde.EncodeSerializableElement[Element](c, arrayDescriptor, i, s, v); err != nil {
				break
			}
		}
		return goserde.EndEncoding(c, arrayDescriptor, err)
	}
	return goserde.Failf(goserde.CodeInvalidType, "unsupported element %T", e)
}

func encodePrimitive(enc goserde.Encoder, p *Primitive) error {
	if p.IsString {
		return enc.EncodeString(p.Content)
	}
	switch p.Content {
	case "true", "false":
		return enc.EncodeBool(p.Content == "true")
	}
	if v, err := strconv.ParseInt(p.Content, 10, 64); err == nil {
		return enc.EncodeInt64(v)
	}
	if isJSONLiteral(p.Content) {
		if v, err := strconv.ParseFloat(p.Content, 64); err == nil {
			return enc.EncodeFloat64(v)
		}
	}
	return enc.EncodeString(p.Content)
}

func (elementSerializer) Deserialize(dec goserde.Decoder) (Element, error) {
	ed, ok := dec.(ElementDecoder)
	if !ok {
		return nil, goserde.Failf(goserde.CodeInvalidType, "JsonElement can only be decoded from JSON, not %T", dec)
	}
	return ed.DecodeJSONElement()
}

// keyType describes object keys as type argument.
type keyType struct{}

func (keyType) Descriptor() *goserde.Descriptor { return keyDescriptor }
