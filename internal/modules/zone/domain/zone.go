package domain

import (
	"fmt"
	"math"

	apperrors "parkwatch/internal/platform/errors"
)

// ID identifies one of the fixed course zones. The numeric order is the
// classification priority.
type ID int

const (
	Neutral ID = iota
	Park1
	Park2
	Park3
)

// Priority lists every zone identity in classification order.
var Priority = []ID{Neutral, Park1, Park2, Park3}

func (id ID) Valid() bool {
	return id >= Neutral && id <= Park3
}

// IsPark reports whether entering the zone can trigger parking.
func (id ID) IsPark() bool {
	return id >= Park1 && id <= Park3
}

func (id ID) String() string {
	switch id {
	case Neutral:
		return "scan_qr_code"
	case Park1, Park2, Park3:
		return fmt.Sprintf("parkpoint_%d", int(id))
	default:
		return fmt.Sprintf("zone(%d)", int(id))
	}
}

// ParseID accepts the canonical names plus the short forms "neutral",
// "scan", "park1".."park3".
func ParseID(s string) (ID, error) {
	switch s {
	case "neutral", "scan", "scan_qr_code":
		return Neutral, nil
	case "park1", "park_1", "parkpoint_1":
		return Park1, nil
	case "park2", "park_2", "parkpoint_2":
		return Park2, nil
	case "park3", "park_3", "parkpoint_3":
		return Park3, nil
	default:
		return 0, fmt.Errorf("%w: unknown zone %q", apperrors.ErrInvalidZone, s)
	}
}

type Point struct {
	X float64
	Y float64
}

// Bounds is an axis-aligned box with inclusive edges.
type Bounds struct {
	Min Point
	Max Point
}

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Zone is an immutable named region described by its boundary points.
type Zone struct {
	id     ID
	points []Point
	bounds Bounds
}

// NewZone validates the boundary and precomputes its bounding box.
func NewZone(id ID, points []Point) (Zone, error) {
	if !id.Valid() {
		return Zone{}, fmt.Errorf("%w: unknown zone id %d", apperrors.ErrInvalidZone, int(id))
	}
	if len(points) < 3 {
		return Zone{}, fmt.Errorf("%w: %s needs at least 3 points, got %d", apperrors.ErrInvalidZone, id, len(points))
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return Zone{}, fmt.Errorf("%w: %s has a non-finite point", apperrors.ErrInvalidZone, id)
		}
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return Zone{id: id, points: append([]Point(nil), points...), bounds: b}, nil
}

func (z Zone) ID() ID { return z.id }

// Points returns a copy of the boundary.
func (z Zone) Points() []Point { return append([]Point(nil), z.points...) }

func (z Zone) Bounds() Bounds { return z.bounds }

// Contains tests the bounding box, not the polygon. Rotated or concave
// boundaries therefore also match in the corners of their box.
func (z Zone) Contains(p Point) bool {
	return z.bounds.Contains(p)
}
