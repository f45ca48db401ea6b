package in

import (
	"context"

	parkdto "parkwatch/internal/modules/park/dto"
	parkin "parkwatch/internal/modules/park/port/in"
)

type CLIHandler struct {
	usecase parkin.Usecase
}

func NewCLIHandler(usecase parkin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) parkdto.StatusOutput {
	return h.usecase.Status(ctx)
}
