package domain_test

import (
	"errors"
	"testing"

	"parkwatch/internal/modules/zone/domain"
	apperrors "parkwatch/internal/platform/errors"
)

func rect(t *testing.T, id domain.ID, x0, y0, x1, y1 float64) domain.Zone {
	t.Helper()
	z, err := domain.NewZone(id, []domain.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}})
	if err != nil {
		t.Fatalf("new zone %s: %v", id, err)
	}
	return z
}

func TestNewZoneRejectsShortBoundary(t *testing.T) {
	t.Parallel()
	_, err := domain.NewZone(domain.Park1, []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if !errors.Is(err, apperrors.ErrInvalidZone) {
		t.Fatalf("expected invalid zone error, got %v", err)
	}
	if _, err := domain.NewZone(domain.ID(9), []domain.Point{{}, {X: 1}, {Y: 1}}); !errors.Is(err, apperrors.ErrInvalidZone) {
		t.Fatalf("expected invalid zone for unknown id, got %v", err)
	}
}

func TestNewMapRequiresNeutralAndUniqueIDs(t *testing.T) {
	t.Parallel()
	if _, err := domain.NewMap(rect(t, domain.Park1, 2, 0, 3, 1)); !errors.Is(err, apperrors.ErrNoNeutralZone) {
		t.Fatalf("expected no neutral zone error, got %v", err)
	}
	if _, err := domain.NewMap(rect(t, domain.Neutral, 0, 0, 1, 1), rect(t, domain.Neutral, 5, 5, 6, 6)); !errors.Is(err, apperrors.ErrInvalidZone) {
		t.Fatalf("expected duplicate zone error, got %v", err)
	}
	if _, err := domain.NewMap(domain.Zone{}); !errors.Is(err, apperrors.ErrInvalidZone) {
		t.Fatalf("expected zero zone to be rejected, got %v", err)
	}
}

func TestClassifyInsideOutsideAndEdges(t *testing.T) {
	t.Parallel()
	m, err := domain.NewMap(rect(t, domain.Park1, 2, 0, 3, 1), rect(t, domain.Neutral, 0, 0, 1, 1))
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	cases := []struct {
		name string
		p    domain.Point
		want domain.Classification
	}{
		{"neutral interior", domain.Point{X: 0.5, Y: 0.5}, domain.Classification{Kind: domain.KindNeutral, Zone: domain.Neutral}},
		{"park interior", domain.Point{X: 2.5, Y: 0.5}, domain.Classification{Kind: domain.KindPark, Zone: domain.Park1}},
		{"park edge inclusive", domain.Point{X: 3, Y: 1}, domain.Classification{Kind: domain.KindPark, Zone: domain.Park1}},
		{"gap between zones", domain.Point{X: 1.5, Y: 0.5}, domain.Unclassified()},
		{"far away", domain.Point{X: -100, Y: 42}, domain.Unclassified()},
	}
	for _, tc := range cases {
		if got := m.Classify(tc.p); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestClassifyOverlapPrefersPriorityOrder(t *testing.T) {
	t.Parallel()
	m, err := domain.NewMap(
		rect(t, domain.Park3, 0, 0, 4, 4),
		rect(t, domain.Park2, 0, 0, 3, 3),
		rect(t, domain.Neutral, 0, 0, 1, 1),
	)
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	if got := m.Classify(domain.Point{X: 0.5, Y: 0.5}); got.Kind != domain.KindNeutral {
		t.Fatalf("neutral must win overlaps, got %v", got)
	}
	if got := m.Classify(domain.Point{X: 2, Y: 2}); got.Zone != domain.Park2 {
		t.Fatalf("park2 must beat park3, got %v", got)
	}
	if got := m.Classify(domain.Point{X: 3.5, Y: 3.5}); got.Zone != domain.Park3 {
		t.Fatalf("expected park3, got %v", got)
	}
	zones := m.Zones()
	if len(zones) != 3 || zones[0].ID() != domain.Neutral || zones[1].ID() != domain.Park2 || zones[2].ID() != domain.Park3 {
		t.Fatalf("zones not in priority order: %v", zones)
	}
}

func TestClassifyUsesBoundingBoxOfRotatedBoundary(t *testing.T) {
	t.Parallel()
	diamond, err := domain.NewZone(domain.Park1, []domain.Point{{X: 1, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 1}})
	if err != nil {
		t.Fatalf("new zone: %v", err)
	}
	m, err := domain.NewMap(rect(t, domain.Neutral, 10, 10, 11, 11), diamond)
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	// (0.1, 0.1) is outside the diamond but inside its box.
	if got := m.Classify(domain.Point{X: 0.1, Y: 0.1}); got.Zone != domain.Park1 || got.Kind != domain.KindPark {
		t.Fatalf("expected bounding box match, got %v", got)
	}
}

func TestZonePointsAreCopied(t *testing.T) {
	t.Parallel()
	pts := []domain.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	z, err := domain.NewZone(domain.Neutral, pts)
	if err != nil {
		t.Fatalf("new zone: %v", err)
	}
	pts[0].X = 99
	out := z.Points()
	out[1].Y = -99
	if z.Bounds().Max.X != 1 || z.Points()[1].Y != 1 {
		t.Fatalf("zone must not alias caller slices: %+v", z.Points())
	}
}

func TestCourseLayout(t *testing.T) {
	t.Parallel()
	m, err := domain.CourseLayout()
	if err != nil {
		t.Fatalf("course layout: %v", err)
	}
	if got := m.Classify(domain.Point{X: 2.8, Y: -3.0}); got.Kind != domain.KindNeutral {
		t.Fatalf("expected scan region, got %v", got)
	}
	// Bay width is 1.756/3; probe the middle of each bay.
	for i, id := range []domain.ID{domain.Park1, domain.Park2, domain.Park3} {
		x := -0.372 + (float64(i)+0.5)*1.756/3
		if got := m.Classify(domain.Point{X: x, Y: -1.3}); got.Zone != id {
			t.Fatalf("expected %s at x=%.3f, got %v", id, x, got)
		}
	}
	if got := m.Classify(domain.Point{X: 0, Y: 0}); got.Kind != domain.KindNone {
		t.Fatalf("expected none outside course, got %v", got)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]domain.ID{"neutral": domain.Neutral, "scan": domain.Neutral, "park2": domain.Park2, "parkpoint_3": domain.Park3} {
		got, err := domain.ParseID(in)
		if err != nil || got != want {
			t.Fatalf("parse %q: got %v, %v", in, got, err)
		}
	}
	if _, err := domain.ParseID("garage"); !errors.Is(err, apperrors.ErrInvalidZone) {
		t.Fatalf("expected invalid zone error, got %v", err)
	}
}
