package compare_test

import (
	"bytes"
	"strconv"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/json"
	"github.com/reoring/goserde/serializers"
)

// shared fixtures

type meta struct {
	Score int64 `json:"score" cbor:"score"`
}

type user struct {
	ID     string `json:"id" cbor:"id"`
	Name   string `json:"name" cbor:"name"`
	Age    int64  `json:"age" cbor:"age"`
	Active bool   `json:"active" cbor:"active"`
	Meta   meta   `json:"meta" cbor:"meta"`
}

var metaSerializer = func() goserde.Serializer[meta] {
	b := serializers.Object[meta]("Meta")
	serializers.Field(b, "score", serializers.Int64(), func(m *meta) int64 { return m.Score }, func(m *meta, v int64) { m.Score = v })
	return b.MustBuild()
}()

var userSerializer = func() goserde.Serializer[user] {
	b := serializers.Object[user]("User")
	serializers.Field(b, "id", serializers.String(), func(u *user) string { return u.ID }, func(u *user, v string) { u.ID = v })
	serializers.OptionalField(b, "name", serializers.String(), func(u *user) string { return u.Name }, func(u *user, v string) { u.Name = v }, "")
	serializers.OptionalField(b, "age", serializers.Int64(), func(u *user) int64 { return u.Age }, func(u *user, v int64) { u.Age = v }, 0)
	serializers.OptionalField(b, "active", serializers.Bool(), func(u *user) bool { return u.Active }, func(u *user, v bool) { u.Active = v }, false)
	serializers.OptionalField(b, "meta", metaSerializer, func(u *user) meta { return u.Meta }, func(u *user, v meta) { u.Meta = v }, meta{})
	return b.MustBuild()
}()

// lenient skips the k0..kN padding members of the huge array.
var lenient = json.New(json.Config{IgnoreUnknownKeys: true})

func smallUserJSON() []byte { return []byte(`{"id":"u_1","name":"alice"}`) }

func makeUsers(n int) []user {
	out := make([]user, n)
	for i := range out {
		out[i] = user{ID: "obj_" + strconv.Itoa(i), Name: "n" + strconv.Itoa(i), Age: int64(i), Active: i%2 == 0, Meta: meta{Score: int64(i)}}
	}
	return out
}

func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"id":"obj_`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","name":"n`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","age":`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`,"active":`)
		buf.WriteString(strconv.FormatBool(i%2 == 0))
		buf.WriteString(`,"meta":{"score":`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte('}')
		for k := 0; k < extraFields; k++ {
			buf.WriteString(`,"k`)
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString(`":"v`)
			buf.WriteString(strconv.Itoa(i))
			buf.WriteByte('_')
			buf.WriteString(strconv.Itoa(k))
			buf.WriteByte('"')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// generateDeepNested builds {"a":{"a":{...{"z":1}...}}}.
func generateDeepNested(depth int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < depth; i++ {
		buf.WriteString(`"a":{`)
	}
	buf.WriteString(`"z":1`)
	for i := 0; i < depth; i++ {
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

const (
	cmpHugeN = 10000
	cmpHugeK = 8
)
