package in

import (
	"context"

	"parkwatch/internal/modules/zone/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ZoneOutput, error)
	Classify(ctx context.Context, input dto.ClassifyInput) (dto.ClassificationOutput, error)
}
