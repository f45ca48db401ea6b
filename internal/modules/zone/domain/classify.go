package domain

import (
	"fmt"

	apperrors "parkwatch/internal/platform/errors"
)

type Kind int

const (
	KindNone Kind = iota
	KindNeutral
	KindPark
)

func (k Kind) String() string {
	switch k {
	case KindNeutral:
		return "neutral"
	case KindPark:
		return "park"
	default:
		return "none"
	}
}

// Classification is the result of testing a position against every zone.
// Zone is meaningful only when Kind is not KindNone.
type Classification struct {
	Kind Kind
	Zone ID
}

func Unclassified() Classification { return Classification{Kind: KindNone} }

func (c Classification) IsPark() bool { return c.Kind == KindPark }

func (c Classification) String() string {
	if c.Kind == KindNone {
		return "none"
	}
	return c.Zone.String()
}

// Map is a read-only zone set. It is safe for concurrent use.
type Map struct {
	zones []Zone
}

// NewMap orders zones by priority. It fails on duplicates or a missing
// neutral zone.
func NewMap(zones ...Zone) (*Map, error) {
	byID := make(map[ID]Zone, len(zones))
	for _, z := range zones {
		if !z.id.Valid() || len(z.points) < 3 {
			return nil, fmt.Errorf("%w: zone was not built with NewZone", apperrors.ErrInvalidZone)
		}
		if _, dup := byID[z.id]; dup {
			return nil, fmt.Errorf("%w: duplicate %s", apperrors.ErrInvalidZone, z.id)
		}
		byID[z.id] = z
	}
	if _, ok := byID[Neutral]; !ok {
		return nil, apperrors.ErrNoNeutralZone
	}
	ordered := make([]Zone, 0, len(byID))
	for _, id := range Priority {
		if z, ok := byID[id]; ok {
			ordered = append(ordered, z)
		}
	}
	return &Map{zones: ordered}, nil
}

// Classify returns the first zone in priority order whose box contains p.
func (m *Map) Classify(p Point) Classification {
	for _, z := range m.zones {
		if !z.Contains(p) {
			continue
		}
		if z.id == Neutral {
			return Classification{Kind: KindNeutral, Zone: Neutral}
		}
		return Classification{Kind: KindPark, Zone: z.id}
	}
	return Unclassified()
}

// Zones returns the configured zones in priority order.
func (m *Map) Zones() []Zone {
	return append([]Zone(nil), m.zones...)
}
