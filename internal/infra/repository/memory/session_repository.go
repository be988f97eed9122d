package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
	"github.com/google/uuid"
)

type SessionMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.ConversionSession
}

func NewSessionMemoryRepository() *SessionMemoryRepository {
	return &SessionMemoryRepository{sessions: make(map[string]entity.ConversionSession)}
}

// cloneSession copies the session header. The SourceFile it points at is
// never modified after a load commits, so the pointer is shared.
func cloneSession(s entity.ConversionSession) entity.ConversionSession {
	return s
}

func (m *SessionMemoryRepository) Create(ctx context.Context, session entity.ConversionSession) (entity.ConversionSession, error) {
	if err := ctx.Err(); err != nil {
		return entity.ConversionSession{}, err
	}

	id := uuid.New().String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		return entity.ConversionSession{}, fmt.Errorf("CREATE: session with ID %s already exists", id)
	}

	now := time.Now()
	session.ID = id
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	m.sessions[session.ID] = cloneSession(session)
	return session, nil
}

func (m *SessionMemoryRepository) Get(ctx context.Context, id string) (entity.ConversionSession, error) {
	if err := ctx.Err(); err != nil {
		return entity.ConversionSession{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return entity.ConversionSession{}, fmt.Errorf("GET: %w: %s", entity.ErrSessionNotFound, id)
	}
	return cloneSession(session), nil
}

func (m *SessionMemoryRepository) Mutate(ctx context.Context, id string, fn func(session *entity.ConversionSession) error) (entity.ConversionSession, error) {
	if err := ctx.Err(); err != nil {
		return entity.ConversionSession{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.sessions[id]
	if !exists {
		return entity.ConversionSession{}, fmt.Errorf("MUTATE: %w: %s", entity.ErrSessionNotFound, id)
	}

	next := cloneSession(current)
	if err := fn(&next); err != nil {
		return cloneSession(current), err
	}

	next.ID = current.ID
	next.UpdatedAt = time.Now()
	m.sessions[id] = cloneSession(next)
	return next, nil
}

func (m *SessionMemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("DELETE: %w: %s", entity.ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *SessionMemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}
