// Package memory holds map-backed repositories for tests and single-process
// demo runs. All repositories returned by one Store share its data, so joins
// (session -> user, purchase -> tool) behave like the Postgres ones.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]domain.User
	sessions    map[uuid.UUID]domain.Session
	tools       map[uuid.UUID]domain.Tool
	purchases   map[uuid.UUID]domain.Purchase
	subscribers map[string]domain.Subscriber
}

func NewStore() *Store {
	return &Store{
		users:       make(map[uuid.UUID]domain.User),
		sessions:    make(map[uuid.UUID]domain.Session),
		tools:       make(map[uuid.UUID]domain.Tool),
		purchases:   make(map[uuid.UUID]domain.Purchase),
		subscribers: make(map[string]domain.Subscriber),
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s} }
func (s *Store) Sessions() *SessionStore            { return &SessionStore{s} }
func (s *Store) Tools() *ToolRepository             { return &ToolRepository{s} }
func (s *Store) Purchases() *PurchaseRepository     { return &PurchaseRepository{s} }
func (s *Store) Newsletter() *NewsletterRepository { return &NewsletterRepository{s} }

// Ping satisfies the health checker.
func (s *Store) Ping(ctx context.Context) error { return nil }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domerrors.ErrUserExists
		}
	}
	r.s.users[user.ID.UUID] = *user
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id.UUID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type SessionStore struct{ s *Store }

func (r *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.ID.UUID] = *session
	return nil
}

func (r *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sess := range r.s.sessions {
		if sess.Token != token {
			continue
		}
		u, ok := r.s.users[sess.UserID.UUID]
		if !ok {
			return nil, nil
		}
		sess.UserEmail = u.Email
		return &sess, nil
	}
	return nil, nil
}

func (r *SessionStore) DeleteByID(ctx context.Context, id domain.SessionID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id.UUID)
	return nil
}

func (r *SessionStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.Token == token {
			delete(r.s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *SessionStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(before) {
			delete(r.s.sessions, id)
			n++
		}
	}
	return n, nil
}

type ToolRepository struct{ s *Store }

func (r *ToolRepository) List(ctx context.Context, category domain.ToolCategory) ([]*domain.Tool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*domain.Tool, 0, len(r.s.tools))
	for _, t := range r.s.tools {
		if !t.IsActive || (category != "" && t.Category != category) {
			continue
		}
		t := t
		list = append(list, &t)
	}
	// same order as the SQL listing: packages last, cheapest first
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.PriceCents != b.PriceCents {
			return a.PriceCents < b.PriceCents
		}
		return a.Slug < b.Slug
	})
	return list, nil
}

func (r *ToolRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if t := r.s.toolBySlug(slug); t != nil {
		return t, nil
	}
	return nil, nil
}

func (r *ToolRepository) GetByID(ctx context.Context, id domain.ToolID) (*domain.Tool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tools[id.UUID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *ToolRepository) Upsert(ctx context.Context, tool *domain.Tool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing := r.s.toolBySlug(tool.Slug); existing != nil {
		tool.ID = existing.ID
		tool.CreatedAt = existing.CreatedAt
	}
	if tool.ID.UUID == uuid.Nil {
		tool.ID = domain.NewToolID(uuid.New())
	}
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = time.Now()
	}
	r.s.tools[tool.ID.UUID] = *tool
	return nil
}

func (s *Store) toolBySlug(slug string) *domain.Tool {
	for _, t := range s.tools {
		if t.Slug == slug {
			return &t
		}
	}
	return nil
}

type PurchaseRepository struct{ s *Store }

func (r *PurchaseRepository) Record(ctx context.Context, p *domain.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.purchases {
		if existing.StripePaymentID == p.StripePaymentID {
			existing.ApplyStatus(p.Status, p.UpdatedAt)
			r.s.purchases[id] = existing
			*p = existing
			return nil
		}
	}
	r.s.purchases[p.ID.UUID] = *p
	return nil
}

func (r *PurchaseRepository) UpdateStatusByPaymentID(ctx context.Context, paymentID string, status domain.PurchaseStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.purchases {
		if p.StripePaymentID == paymentID {
			p.ApplyStatus(status, time.Now())
			r.s.purchases[id] = p
			n++
		}
	}
	return n, nil
}

func (r *PurchaseRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.purchases {
		if p.StripePaymentID == paymentID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PurchaseRepository) HasCompletedPurchase(ctx context.Context, userID domain.UserID, toolID domain.ToolID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.purchases {
		if p.UserID == userID && p.ToolID == toolID && p.Status == domain.PurchaseCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *PurchaseRepository) HasEntitlementBySlug(ctx context.Context, userID domain.UserID, slug string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t := r.s.toolBySlug(slug)
	if t == nil {
		return false, nil
	}
	for _, p := range r.s.purchases {
		if p.UserID == userID && p.ToolID == t.ID && p.Entitles() {
			return true, nil
		}
	}
	return false, nil
}

func (r *PurchaseRepository) ListCompleted(ctx context.Context, userID domain.UserID) ([]domain.OwnedTool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.OwnedTool{}
	for _, p := range r.s.purchases {
		if p.UserID != userID || p.Status != domain.PurchaseCompleted {
			continue
		}
		t, ok := r.s.tools[p.ToolID.UUID]
		if !ok {
			continue
		}
		p := p
		out = append(out, domain.OwnedTool{Purchase: &p, Tool: &t})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Purchase.CreatedAt.After(out[j].Purchase.CreatedAt)
	})
	return out, nil
}

type NewsletterRepository struct{ s *Store }

func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sub, ok := r.s.subscribers[email]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *NewsletterRepository) Create(ctx context.Context, sub *domain.Subscriber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subscribers[sub.Email]; ok {
		return domerrors.ErrSubscriberExists
	}
	r.s.subscribers[sub.Email] = *sub
	return nil
}

func (r *NewsletterRepository) Update(ctx context.Context, sub *domain.Subscriber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subscribers[sub.Email]; ok {
		r.s.subscribers[sub.Email] = *sub
	}
	return nil
}

var (
	_ ports.UserRepository       = (*UserRepository)(nil)
	_ ports.SessionStore         = (*SessionStore)(nil)
	_ ports.ToolRepository       = (*ToolRepository)(nil)
	_ ports.PurchaseRepository   = (*PurchaseRepository)(nil)
	_ ports.NewsletterRepository = (*NewsletterRepository)(nil)
)
