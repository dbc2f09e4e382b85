package json

import (
	"errors"
	"strconv"

	goserde "github.com/reoring/goserde"
)

// Literal conversions shared by Primitive and the streaming decoder.

func parseInt(s string, bits int) (int64, error) {
	v, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, literalError(s, "integer", err)
	}
	return v, nil
}

func parseFloat(s string, bits int) (float64, error) {
	v, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, literalError(s, "number", err)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, goserde.Failf(goserde.CodeInvalidLiteral, "%q is not a boolean", s)
}

func literalError(s, what string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return goserde.WithCause(goserde.Failf(goserde.CodeOverflow, "%q overflows %s", s, what), err)
	}
	return goserde.WithCause(goserde.Failf(goserde.CodeInvalidLiteral, "%q is not a valid %s", s, what), err)
}
