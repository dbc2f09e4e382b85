package cbor

import (
	"reflect"

	fxcbor "github.com/fxamacker/cbor/v2"
)

// genericMode decodes arbitrary input into plain Go values. Maps come out
// as map[string]any when every key is text, matching what a JSON tree
// projects to.
var genericMode = func() fxcbor.DecMode {
	m, err := fxcbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
	return m
}()

// Diagnose returns the RFC 8949 diagnostic notation of every data item in
// data, one per line.
func Diagnose(data []byte) ([]string, error) {
	var out []string
	for rest := data; len(rest) > 0; {
		notation, next, err := fxcbor.DiagnoseFirst(rest)
		if err != nil {
			return out, err
		}
		out = append(out, notation)
		rest = next
	}
	return out, nil
}

// ToAny decodes one data item into plain Go values without a descriptor.
func ToAny(data []byte) (any, error) {
	var v any
	if err := genericMode.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
