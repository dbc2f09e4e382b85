package codec

import (
	"time"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/serializers"
)

// TimeRFC3339 returns a Codec that converts between RFC3339 strings and time.Time.
func TimeRFC3339() Codec[string, time.Time] { return rfc3339Codec{} }

// Time serializes time.Time as an RFC3339 string normalized to UTC.
func Time() goserde.Serializer[time.Time] {
	return Transform("time.Time", serializers.String(), TimeRFC3339())
}

type rfc3339Codec struct{}

func (rfc3339Codec) Decode(a string) (time.Time, error) {
	t, err := parseRFC3339(a)
	if err != nil {
		return time.Time{}, goserde.WithCause(goserde.Failf(goserde.CodeInvalidFormat, "invalid RFC3339 time %q", a), err)
	}
	return t, nil
}

func (rfc3339Codec) Encode(b time.Time) (string, error) {
	return formatRFC3339Canonical(b), nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
