package usecase

import (
	"context"
	"fmt"
	"math"

	"parkwatch/internal/modules/zone/domain"
	"parkwatch/internal/modules/zone/dto"
	zonein "parkwatch/internal/modules/zone/port/in"
	zoneout "parkwatch/internal/modules/zone/port/out"
	apperrors "parkwatch/internal/platform/errors"
)

type Interactor struct {
	zones *domain.Map
}

// Load builds the zone map from store. Any configuration problem is fatal.
func Load(ctx context.Context, store zoneout.Store) (*domain.Map, error) {
	zones, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	m, err := domain.NewMap(zones...)
	if err != nil {
		return nil, fmt.Errorf("build zone map: %w", err)
	}
	return m, nil
}

func NewInteractor(zones *domain.Map) zonein.Usecase {
	return &Interactor{zones: zones}
}

func (i *Interactor) List(_ context.Context) ([]dto.ZoneOutput, error) {
	zones := i.zones.Zones()
	out := make([]dto.ZoneOutput, 0, len(zones))
	for _, z := range zones {
		pts := z.Points()
		points := make([]dto.PointOutput, 0, len(pts))
		for _, p := range pts {
			points = append(points, dto.PointOutput{X: p.X, Y: p.Y})
		}
		b := z.Bounds()
		out = append(out, dto.ZoneOutput{
			ID:     int(z.ID()),
			Name:   z.ID().String(),
			Points: points,
			Min:    dto.PointOutput{X: b.Min.X, Y: b.Min.Y},
			Max:    dto.PointOutput{X: b.Max.X, Y: b.Max.Y},
		})
	}
	return out, nil
}

func (i *Interactor) Classify(_ context.Context, input dto.ClassifyInput) (dto.ClassificationOutput, error) {
	if math.IsNaN(input.X) || math.IsNaN(input.Y) {
		return dto.ClassificationOutput{}, fmt.Errorf("%w: position is not a number", apperrors.ErrInvalidInput)
	}
	return toOutput(i.zones.Classify(domain.Point{X: input.X, Y: input.Y})), nil
}

func toOutput(c domain.Classification) dto.ClassificationOutput {
	if c.Kind == domain.KindNone {
		return dto.ClassificationOutput{Kind: c.Kind.String(), Zone: -1, Name: "none"}
	}
	return dto.ClassificationOutput{Kind: c.Kind.String(), Zone: int(c.Zone), Name: c.Zone.String()}
}
