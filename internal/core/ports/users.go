package ports

import (
	"context"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

type UserStore interface {
	Create(ctx context.Context, u domain.User, draft domain.LedgerDraft) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	Count(ctx context.Context) (int64, error)
}
