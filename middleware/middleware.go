// Package middleware binds goserde serializers to HTTP request and response
// bodies. The body format is negotiated from Content-Type and Accept:
// application/cbor selects the binary format, anything else the text format.
package middleware

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	gojson "github.com/goccy/go-json"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/cbor"
	"github.com/reoring/goserde/json"
)

const (
	MediaTypeJSON = "application/json"
	MediaTypeCBOR = "application/cbor"
)

// DefaultMaxBodyBytes bounds request bodies when Formats.MaxBodyBytes is 0.
const DefaultMaxBodyBytes = 1 << 20

// Formats selects the configured formats used at an HTTP boundary.
type Formats struct {
	JSON *json.Format
	CBOR *cbor.Format
	// MaxBodyBytes caps request bodies; 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// DefaultFormats returns the recommended formats for HTTP boundaries:
// strict JSON with a nesting limit and compact output.
func DefaultFormats() Formats {
	return Formats{
		JSON: json.New(json.Config{MaxDepth: 128}),
		CBOR: cbor.Default,
	}
}

// ErrBodyTooLarge is returned by Decode when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("middleware: request body too large")

// ctxKeyDecoded is a typed context key for storing a decoded T.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a decoded body to the context.
func ContextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

// DecodedFromContext retrieves a body stored by ContextWithDecoded.
func DecodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// IsCBOR reports whether a Content-Type or Accept value names CBOR.
func IsCBOR(header string) bool {
	for _, part := range strings.Split(header, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mt == MediaTypeCBOR || strings.HasSuffix(mt, "+cbor")) {
			return true
		}
	}
	return false
}

// Decode reads the request body with s in the format named by its
// Content-Type.
func Decode[T any](r *http.Request, s goserde.Serializer[T], f Formats) (T, error) {
	var zero T
	body, err := readBody(r, f)
	if err != nil {
		return zero, err
	}
	if IsCBOR(r.Header.Get("Content-Type")) {
		return cbor.Decode(f.CBOR, s, body)
	}
	return json.Decode(f.JSON, s, string(body))
}

// Update merges the request body into old, as for a PATCH request. old
// itself is not modified.
func Update[T any](r *http.Request, s goserde.Serializer[T], old T, f Formats) (T, error) {
	var zero T
	body, err := readBody(r, f)
	if err != nil {
		return zero, err
	}
	if IsCBOR(r.Header.Get("Content-Type")) {
		return cbor.Update(f.CBOR, s, old, body)
	}
	return json.Update(f.JSON, s, old, string(body))
}

func readBody(r *http.Request, f Formats) ([]byte, error) {
	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

// Encode writes v with s in the format preferred by the request's Accept
// header.
func Encode[T any](w http.ResponseWriter, r *http.Request, status int, s goserde.Serializer[T], v T, f Formats) error {
	var body []byte
	ct := MediaTypeJSON
	if IsCBOR(r.Header.Get("Accept")) {
		b, err := cbor.Encode(f.CBOR, s, v)
		if err != nil {
			return err
		}
		body, ct = b, MediaTypeCBOR
	} else {
		text, err := json.Encode(f.JSON, s, v)
		if err != nil {
			return err
		}
		body = []byte(text)
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// IssuePayload is the wire shape of one Issue in error responses.
type IssuePayload struct {
	Path    string `json:"path,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Offset  *int64 `json:"offset,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []goserde.Issue) map[string]any {
	out := make([]IssuePayload, len(issues))
	for i, it := range issues {
		out[i] = IssuePayload{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint}
		if it.Offset >= 0 {
			off := it.Offset
			out[i].Offset = &off
		}
	}
	return map[string]any{"issues": out}
}

// StatusFor maps a Decode error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, new(goserde.Issues)):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON error response.
func WriteError(w http.ResponseWriter, err error) {
	var payload any = map[string]any{"error": err.Error()}
	if iss, ok := goserde.AsIssues(err); ok {
		payload = ErrorPayload(iss)
	}
	body, merr := gojson.Marshal(payload)
	if merr != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", MediaTypeJSON)
	w.WriteHeader(StatusFor(err))
	_, _ = w.Write(body)
}

// Bind decodes the request body with s before calling next; the value is
// available through DecodedFromContext. Failures answer 400 (or 413) with
// the issues as JSON.
func Bind[T any](s goserde.Serializer[T], f Formats, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := Decode(r, s, f)
		if err != nil {
			WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), v)))
	})
}
