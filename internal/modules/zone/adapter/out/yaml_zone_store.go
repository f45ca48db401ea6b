package out

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"parkwatch/internal/modules/zone/domain"
	zoneout "parkwatch/internal/modules/zone/port/out"
	apperrors "parkwatch/internal/platform/errors"
)

type yamlLayout struct {
	Zones []yamlZone `yaml:"zones"`
}

type yamlZone struct {
	ID     string      `yaml:"id"`
	Points [][]float64 `yaml:"points"`
}

// YAMLZoneStore reads a zone layout such as:
//
//	zones:
//	  - id: neutral
//	    points: [[0, 0], [0, 1], [1, 1], [1, 0]]
//	  - id: park1
//	    points: [[2, 0], [2, 1], [3, 1], [3, 0]]
type YAMLZoneStore struct {
	path string
}

func NewYAMLZoneStore(path string) zoneout.Store {
	return &YAMLZoneStore{path: path}
}

func (s *YAMLZoneStore) Load(_ context.Context) ([]domain.Zone, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read zone file: %v", apperrors.ErrInvalidConfig, err)
	}
	layout := yamlLayout{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&layout); err != nil {
		return nil, fmt.Errorf("%w: decode zone file: %v", apperrors.ErrInvalidConfig, err)
	}

	zones := make([]domain.Zone, 0, len(layout.Zones))
	for idx, entry := range layout.Zones {
		id, err := domain.ParseID(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("zone #%d: %w", idx, err)
		}
		points := make([]domain.Point, 0, len(entry.Points))
		for j, pair := range entry.Points {
			if len(pair) != 2 {
				return nil, fmt.Errorf("%w: %s point #%d must have 2 coordinates", apperrors.ErrInvalidZone, id, j)
			}
			points = append(points, domain.Point{X: pair[0], Y: pair[1]})
		}
		z, err := domain.NewZone(id, points)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// CourseLayoutStore serves the built-in course layout.
type CourseLayoutStore struct{}

func NewCourseLayoutStore() zoneout.Store {
	return CourseLayoutStore{}
}

func (CourseLayoutStore) Load(_ context.Context) ([]domain.Zone, error) {
	m, err := domain.CourseLayout()
	if err != nil {
		return nil, err
	}
	return m.Zones(), nil
}
