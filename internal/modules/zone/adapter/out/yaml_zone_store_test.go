package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	zoneout "parkwatch/internal/modules/zone/adapter/out"
	"parkwatch/internal/modules/zone/domain"
	apperrors "parkwatch/internal/platform/errors"
)

func writeLayout(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zones.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write layout: %v", err)
	}
	return path
}

func TestYAMLZoneStoreLoadsLayout(t *testing.T) {
	t.Parallel()
	path := writeLayout(t, `zones:
  - id: park1
    points: [[2, 0], [2, 1], [3, 1], [3, 0]]
  - id: neutral
    points: [[0, 0], [0, 1], [1, 1], [1, 0]]
`)
	zones, err := zoneout.NewYAMLZoneStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(zones) != 2 || zones[0].ID() != domain.Park1 || zones[1].ID() != domain.Neutral {
		t.Fatalf("unexpected zones: %+v", zones)
	}
	if b := zones[0].Bounds(); b.Min.X != 2 || b.Max.Y != 1 {
		t.Fatalf("unexpected park1 bounds: %+v", b)
	}
}

func TestYAMLZoneStoreRejectsMalformedEntries(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		body string
		want error
	}{
		"two points":    {"zones:\n  - id: neutral\n    points: [[0, 0], [1, 1]]\n", apperrors.ErrInvalidZone},
		"bad pair":      {"zones:\n  - id: neutral\n    points: [[0], [1, 1], [2, 2]]\n", apperrors.ErrInvalidZone},
		"unknown zone":  {"zones:\n  - id: garage\n    points: [[0, 0], [0, 1], [1, 1]]\n", apperrors.ErrInvalidZone},
		"unknown field": {"zones:\n  - id: neutral\n    frame: map\n    points: [[0, 0], [0, 1], [1, 1]]\n", apperrors.ErrInvalidConfig},
	}
	for name, tc := range cases {
		_, err := zoneout.NewYAMLZoneStore(writeLayout(t, tc.body)).Load(context.Background())
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}
}

func TestYAMLZoneStoreMissingFile(t *testing.T) {
	t.Parallel()
	_, err := zoneout.NewYAMLZoneStore(filepath.Join(t.TempDir(), "none.yaml")).Load(context.Background())
	if !errors.Is(err, apperrors.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestCourseLayoutStore(t *testing.T) {
	t.Parallel()
	zones, err := zoneout.NewCourseLayoutStore().Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(zones) != 4 {
		t.Fatalf("expected 4 course zones, got %d", len(zones))
	}
}

func TestExampleZoneFileMatchesCourseLayout(t *testing.T) {
	t.Parallel()
	path := filepath.Join("..", "..", "..", "..", "..", "configs", "zones.example.yaml")
	zones, err := zoneout.NewYAMLZoneStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	m, err := domain.NewMap(zones...)
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	course, err := domain.CourseLayout()
	if err != nil {
		t.Fatalf("course layout: %v", err)
	}
	for _, p := range []domain.Point{{X: 3, Y: -3}, {X: 0, Y: -1.3}, {X: 0.5, Y: -1.3}, {X: 1.2, Y: -1.0}, {X: 5, Y: 5}} {
		if got, want := m.Classify(p), course.Classify(p); got != want {
			t.Fatalf("classify %+v: example file gives %+v, course gives %+v", p, got, want)
		}
	}
}
