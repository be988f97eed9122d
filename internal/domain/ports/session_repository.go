package ports

import (
	"context"
	"time"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
)

//go:generate mockgen -source=session_repository.go -destination=mocks/mock_session_repository.go -package=mocks

type SessionRepository interface {
	Create(ctx context.Context, session entity.ConversionSession) (entity.ConversionSession, error)
	Get(ctx context.Context, id string) (entity.ConversionSession, error)
	// Mutate applies fn to a copy of the session and stores the copy only when
	// fn returns nil. Calls for the same id are serialized.
	Mutate(ctx context.Context, id string, fn func(session *entity.ConversionSession) error) (entity.ConversionSession, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
