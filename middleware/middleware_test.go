package middleware_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/cbor"
	"github.com/reoring/goserde/middleware"
	"github.com/reoring/goserde/serializers"
)

type user struct {
	ID   string
	Nick string
}

var userSerializer = func() goserde.Serializer[user] {
	b := serializers.Object[user]("User")
	serializers.Field(b, "id", serializers.String(), func(u *user) string { return u.ID }, func(u *user, v string) { u.ID = v })
	serializers.OptionalField(b, "nick", serializers.String(), func(u *user) string { return u.Nick }, func(u *user, v string) { u.Nick = v }, "anon")
	return b.MustBuild()
}()

func echoHandler(f middleware.Formats) http.Handler {
	return middleware.Bind(userSerializer, f, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := middleware.DecodedFromContext[user](r.Context())
		if !ok {
			http.Error(w, "missing body", http.StatusInternalServerError)
			return
		}
		if err := middleware.Encode(w, r, http.StatusOK, userSerializer, u, f); err != nil {
			middleware.WriteError(w, err)
		}
	}))
}

func TestBind_JSON(t *testing.T) {
	h := echoHandler(middleware.DefaultFormats())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != `{"id":"u1","nick":"anon"}` {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != middleware.MediaTypeJSON {
		t.Fatalf("content type = %s", ct)
	}
}

func TestBind_CBORNegotiation(t *testing.T) {
	f := middleware.DefaultFormats()
	body, err := cbor.Encode(nil, userSerializer, user{ID: "u2", Nick: "x"})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/cbor")
	req.Header.Set("Accept", "text/html, application/cbor;q=0.9")
	rec := httptest.NewRecorder()
	echoHandler(f).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != middleware.MediaTypeCBOR {
		t.Fatalf("got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	got, err := cbor.Decode(nil, userSerializer, rec.Body.Bytes())
	if err != nil || got != (user{ID: "u2", Nick: "x"}) {
		t.Fatalf("decoded %+v, %v", got, err)
	}
}

func TestBind_IssuesPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"u1","zzz":1}`))
	rec := httptest.NewRecorder()
	echoHandler(middleware.DefaultFormats()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Issues []middleware.IssuePayload `json:"issues"`
	}
	if err := gojson.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	off := int64(11)
	want := []middleware.IssuePayload{{Path: "/zzz", Code: goserde.CodeUnknownKey, Message: "unknown key", Hint: "zzz", Offset: &off}}
	if diff := cmp.Diff(want, payload.Issues); diff != "" {
		t.Fatalf("issues (-want +got):\n%s", diff)
	}
}

func TestBind_BodyLimit(t *testing.T) {
	f := middleware.DefaultFormats()
	f.MaxBodyBytes = 8
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"a long identifier"}`))
	rec := httptest.NewRecorder()
	echoHandler(f).ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
	b, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(b), "too large") {
		t.Fatalf("body = %s", b)
	}
}

func TestIsCBOR(t *testing.T) {
	for in, want := range map[string]bool{
		"application/cbor":               true,
		"application/vnd.foo+cbor":       true,
		"application/json":               false,
		"":                               false,
		"text/plain, application/cbor":   true,
		"application/cbor; charset=utf8": true,
	} {
		if got := middleware.IsCBOR(in); got != want {
			t.Fatalf("IsCBOR(%q) = %v", in, got)
		}
	}
}

func TestUpdate_MergesIntoOld(t *testing.T) {
	old := user{ID: "u1", Nick: "a"}
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"nick":"b"}`))
	got, err := middleware.Update(req, userSerializer, old, middleware.Formats{})
	if err != nil || got != (user{ID: "u1", Nick: "b"}) {
		t.Fatalf("got %+v, %v", got, err)
	}
}
