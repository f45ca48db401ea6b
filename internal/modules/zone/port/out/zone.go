package out

import (
	"context"

	"parkwatch/internal/modules/zone/domain"
)

type Store interface {
	Load(ctx context.Context) ([]domain.Zone, error)
}
