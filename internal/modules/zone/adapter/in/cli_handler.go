package in

import (
	"context"

	zonedto "parkwatch/internal/modules/zone/dto"
	zonein "parkwatch/internal/modules/zone/port/in"
)

type CLIHandler struct {
	usecase zonein.Usecase
}

func NewCLIHandler(usecase zonein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]zonedto.ZoneOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Classify(ctx context.Context, x, y float64) (zonedto.ClassificationOutput, error) {
	return h.usecase.Classify(ctx, zonedto.ClassifyInput{X: x, Y: y})
}
