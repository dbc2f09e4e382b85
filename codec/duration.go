package codec

import (
	"time"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/serializers"
)

// DurationString converts between time.ParseDuration text ("1h30m") and
// time.Duration.
func DurationString() Codec[string, time.Duration] { return durationCodec{} }

// Duration serializes time.Duration in its String form.
func Duration() goserde.Serializer[time.Duration] {
	return Transform("time.Duration", serializers.String(), DurationString())
}

type durationCodec struct{}

func (durationCodec) Decode(a string) (time.Duration, error) {
	d, err := time.ParseDuration(a)
	if err != nil {
		return 0, goserde.WithCause(goserde.Failf(goserde.CodeInvalidFormat, "invalid duration %q", a), err)
	}
	return d, nil
}

func (durationCodec) Encode(b time.Duration) (string, error) { return b.String(), nil }
