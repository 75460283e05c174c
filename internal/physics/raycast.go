package physics

import (
	"math"
	"sort"

	"github.com/ByteArena/box2d"
)

// Hit describes one fixture intersected by a ray.
type Hit struct {
	ActorID   uint64
	Point     Vec2
	Normal    Vec2
	Fraction  float64
	IsTrigger bool
}

// Raycast casts from origin along direction for distance units and returns
// the nearest hit. A zero direction or non-positive distance hits nothing.
func (w *World) Raycast(origin, direction Vec2, distance float64) (Hit, bool) {
	end, ok := rayEnd(origin, direction, distance)
	if !ok {
		return Hit{}, false
	}

	var nearest Hit
	found := false
	w.world.RayCast(func(fixture *box2d.B2Fixture, point, normal box2d.B2Vec2, fraction float64) float64 {
		rb, ok := fixture.GetUserData().(*Rigidbody)
		if !ok || rb == nil {
			return -1 // skip phantom fixtures, keep casting
		}
		nearest = Hit{
			ActorID:   rb.ownerID,
			Point:     Vec2{X: point.X, Y: point.Y},
			Normal:    Vec2{X: normal.X, Y: normal.Y},
			Fraction:  fraction,
			IsTrigger: fixture.IsSensor(),
		}
		found = true
		return fraction // clip the ray, only closer hits remain
	}, box2d.MakeB2Vec2(origin.X, origin.Y), box2d.MakeB2Vec2(end.X, end.Y))

	return nearest, found
}

// RaycastAll returns every hit along the ray, nearest first. Hits at equal
// fractions keep their reporting order.
func (w *World) RaycastAll(origin, direction Vec2, distance float64) []Hit {
	end, ok := rayEnd(origin, direction, distance)
	if !ok {
		return nil
	}

	var hits []Hit
	w.world.RayCast(func(fixture *box2d.B2Fixture, point, normal box2d.B2Vec2, fraction float64) float64 {
		rb, ok := fixture.GetUserData().(*Rigidbody)
		if !ok || rb == nil {
			return -1
		}
		hits = append(hits, Hit{
			ActorID:   rb.ownerID,
			Point:     Vec2{X: point.X, Y: point.Y},
			Normal:    Vec2{X: normal.X, Y: normal.Y},
			Fraction:  fraction,
			IsTrigger: fixture.IsSensor(),
		})
		return 1 // keep the full ray, report everything
	}, box2d.MakeB2Vec2(origin.X, origin.Y), box2d.MakeB2Vec2(end.X, end.Y))

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Fraction < hits[j].Fraction
	})
	return hits
}

func rayEnd(origin, direction Vec2, distance float64) (Vec2, bool) {
	if distance <= 0 {
		return Vec2{}, false
	}
	length := math.Hypot(direction.X, direction.Y)
	if length == 0 {
		return Vec2{}, false
	}
	return Vec2{
		X: origin.X + direction.X/length*distance,
		Y: origin.Y + direction.Y/length*distance,
	}, true
}
