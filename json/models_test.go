package json_test

import (
	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/serializers"
)

type point struct {
	X, Y int
}

var pointSerializer = func() goserde.Serializer[point] {
	b := serializers.Object[point]("Point")
	serializers.Field(b, "x", serializers.Int(), func(p *point) int { return p.X }, func(p *point, v int) { p.X = v })
	serializers.Field(b, "y", serializers.Int(), func(p *point) int { return p.Y }, func(p *point, v int) { p.Y = v })
	return b.MustBuild()
}()

type profile struct {
	Name  string
	Tags  []string
	Score float64
	Home  *point
}

var profileSerializer = func() goserde.Serializer[profile] {
	b := serializers.Object[profile]("Profile")
	serializers.Field(b, "name", serializers.String(),
		func(p *profile) string { return p.Name }, func(p *profile, v string) { p.Name = v })
	serializers.OptionalField(b, "tags", serializers.List(serializers.String()),
		func(p *profile) []string { return p.Tags }, func(p *profile, v []string) { p.Tags = v }, nil)
	serializers.OptionalField(b, "score", serializers.Float64(),
		func(p *profile) float64 { return p.Score }, func(p *profile, v float64) { p.Score = v }, 0)
	serializers.OptionalField(b, "home", goserde.Nullable(pointSerializer),
		func(p *profile) *point { return p.Home }, func(p *profile, v *point) { p.Home = v }, nil)
	return b.MustBuild()
}()

type shape interface{ area() float64 }

type circle struct{ Radius float64 }

type rect struct{ W, H float64 }

func (c circle) area() float64 { return 3 * c.Radius * c.Radius }
func (r rect) area() float64   { return r.W * r.H }

var circleSerializer = func() goserde.Serializer[circle] {
	b := serializers.Object[circle]("circle")
	serializers.Field(b, "radius", serializers.Float64(),
		func(c *circle) float64 { return c.Radius }, func(c *circle, v float64) { c.Radius = v })
	return b.MustBuild()
}()

var rectSerializer = func() goserde.Serializer[rect] {
	b := serializers.Object[rect]("rect")
	serializers.Field(b, "w", serializers.Float64(), func(r *rect) float64 { return r.W }, func(r *rect, v float64) { r.W = v })
	serializers.Field(b, "h", serializers.Float64(), func(r *rect) float64 { return r.H }, func(r *rect, v float64) { r.H = v })
	return b.MustBuild()
}()

func shapeSerializer() goserde.Serializer[shape] {
	r := serializers.NewRegistry[shape]("shape")
	serializers.MustSubclass[shape](r, circleSerializer)
	serializers.MustSubclass[shape](r, rectSerializer)
	return serializers.Polymorphic(r)
}
