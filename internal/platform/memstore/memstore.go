// Package memstore keeps users, documents and summaries in process memory. It backs
// the "memory" database driver for local development and the orchestration
// tests. Values are copied on the way in and out, so callers never share
// state with the store.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
)

// Store holds every collection behind one lock. Documents are not checked
// against users, so tokens minted for arbitrary IDs work in development.
type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]domain.User
	emails    map[string]uuid.UUID
	documents map[uuid.UUID]domain.Document
	summaries map[uuid.UUID]domain.Summary
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:     make(map[uuid.UUID]domain.User),
		emails:    make(map[string]uuid.UUID),
		documents: make(map[uuid.UUID]domain.Document),
		summaries: make(map[uuid.UUID]domain.Summary),
	}
}

// Users returns the store's user view.
func (s *Store) Users() *UserStore {
	return &UserStore{s: s}
}

// Documents returns the store's document view.
func (s *Store) Documents() *DocumentStore {
	return &DocumentStore{s: s}
}

// Summaries returns the store's summary view.
func (s *Store) Summaries() *SummaryStore {
	return &SummaryStore{s: s}
}

// UserStore implements store.UserStore. Emails are unique after
// normalization.
type UserStore struct {
	s *Store
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.
func (u *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	email := domain.NormalizeEmail(user.Email)
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, taken := u.s.emails[email]; taken {
		return store.ErrEmailExists
	}
	if _, exists := u.s.users[user.ID]; exists {
		return fmt.Errorf("%w: user %s", store.ErrDuplicate, user.ID)
	}
	stored := *user
	stored.Email = email
	u.s.users[user.ID] = stored
	u.s.emails[email] = user.ID
	return nil
}

// GetByID implements store.UserStore.
func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.
func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	id, ok := u.s.emails[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	user := u.s.users[id]
	return &user, nil
}

// DocumentStore implements store.DocumentStore.
type DocumentStore struct {
	s *Store
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// Create implements store.DocumentStore.
func (d *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	if _, exists := d.s.documents[doc.ID]; exists {
		return fmt.Errorf("%w: document %s", store.ErrDuplicate, doc.ID)
	}
	d.s.documents[doc.ID] = *doc
	return nil
}

// GetByID implements store.DocumentStore.
func (d *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	doc, ok := d.s.documents[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return &doc, nil
}

// SummaryStore implements store.SummaryStore.
type SummaryStore struct {
	s *Store
}

var _ store.SummaryStore = (*SummaryStore)(nil)

func copySummary(in domain.Summary) *domain.Summary {
	in.Artifact = in.Artifact.Clone()
	return &in
}

// Create implements store.SummaryStore.
func (m *SummaryStore) Create(ctx context.Context, sum *domain.Summary) error {
	if err := sum.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	doc, ok := m.s.documents[sum.DocumentID]
	if !ok || doc.UserID != sum.UserID {
		return store.ErrDocumentNotFound
	}
	if _, exists := m.s.summaries[sum.ID]; exists {
		return fmt.Errorf("%w: summary %s", store.ErrDuplicate, sum.ID)
	}
	m.s.summaries[sum.ID] = *copySummary(*sum)
	return nil
}

// GetByID implements store.SummaryStore.
func (m *SummaryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Summary, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	sum, ok := m.s.summaries[id]
	if !ok {
		return nil, store.ErrSummaryNotFound
	}
	return copySummary(sum), nil
}

// Update implements store.SummaryStore. Only the artifact and UpdatedAt change.
func (m *SummaryStore) Update(ctx context.Context, sum *domain.Summary) error {
	if err := sum.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.summaries[sum.ID]
	if !ok {
		return store.ErrSummaryNotFound
	}
	existing.Artifact = sum.Artifact.Clone()
	existing.UpdatedAt = sum.UpdatedAt
	m.s.summaries[sum.ID] = existing
	return nil
}

// ListByUser implements store.SummaryStore.
func (m *SummaryStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Summary, int, error) {
	m.s.mu.RLock()
	var owned []domain.Summary
	for _, sum := range m.s.summaries {
		if sum.UserID == userID {
			owned = append(owned, sum)
		}
	}
	m.s.mu.RUnlock()

	slices.SortFunc(owned, func(a, b domain.Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(b.ID[:], a.ID[:])
	})

	total := len(owned)
	if offset >= total {
		return []*domain.Summary{}, total, nil
	}
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	}
	out := make([]*domain.Summary, 0, end-offset)
	for _, sum := range owned[offset:end] {
		out = append(out, copySummary(sum))
	}
	return out, total, nil
}

// Delete implements store.SummaryStore.
func (m *SummaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.summaries[id]; !ok {
		return store.ErrSummaryNotFound
	}
	delete(m.s.summaries, id)
	return nil
}
