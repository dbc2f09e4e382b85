// Package goserde provides structural serialization driven by descriptors.
//
//   - A Descriptor is the format-independent shape of a type: its kind,
//     serial name and ordered elements.
//   - A Serializer[T] walks a value against its descriptor through the
//     Encoder/Decoder protocol, so one serializer works with every format.
//   - Formats (json, cbor) implement the protocol; the json package also
//     offers a mutable tree (Element) and a streaming mode.
//   - Failures are Issues carrying a code, a JSON Pointer path and the input
//     offset.
//
// Design policy:
//   - Keep the protocol and error model in the root package; serializers for
//     built-in kinds live under serializers/, formats in their own packages,
//     and lexing helpers under internal/.
//   - Decoding is fail-fast: the first problem ends the call with one Issue.
//
// Typical usage:
//
//	b := serializers.Object[User]("User")
//	serializers.Field(b, "name", serializers.String(), getName, setName)
//	s := b.MustBuild()
//
//	text, err := json.Encode(nil, s, u)
//	u2, err := json.Decode(nil, s, text)
//	u3, err := json.Update(nil, s, u2, `{"name":"ann"}`)
package goserde
