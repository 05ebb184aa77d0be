package ports

import (
	"context"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
)

// Lookups return (nil, nil) when nothing matches.

// UserRepository defines persistence for users (the credential store).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
}

// SessionStore defines persistence for server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	// GetByToken returns the session with UserEmail filled.
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByID(ctx context.Context, id domain.SessionID) error
	// DeleteByToken removes every row carrying token and reports how many went.
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ToolRepository defines read access to the catalog plus seeding.
type ToolRepository interface {
	// List returns active tools; an empty category means all.
	List(ctx context.Context, category domain.ToolCategory) ([]*domain.Tool, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tool, error)
	GetByID(ctx context.Context, id domain.ToolID) (*domain.Tool, error)
	// Upsert inserts or replaces a tool keyed by slug.
	Upsert(ctx context.Context, tool *domain.Tool) error
}

// PurchaseRepository is the purchase ledger.
type PurchaseRepository interface {
	// Record inserts a purchase; when a row with the same StripePaymentID
	// exists its status is overwritten instead. The stored row is written
	// back into purchase.
	Record(ctx context.Context, purchase *domain.Purchase) error
	// UpdateStatusByPaymentID sets the status of the row with paymentID and
	// reports how many rows matched.
	UpdateStatusByPaymentID(ctx context.Context, paymentID string, status domain.PurchaseStatus) (int64, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Purchase, error)
	// HasCompletedPurchase reports whether a purchase of the tool is currently
	// completed. Refunded rows do not count, so a refunded buyer may check out again.
	HasCompletedPurchase(ctx context.Context, userID domain.UserID, toolID domain.ToolID) (bool, error)
	// HasEntitlementBySlug looks for a purchase that grants access
	// (see domain.Purchase.Entitles).
	HasEntitlementBySlug(ctx context.Context, userID domain.UserID, slug string) (bool, error)
	// ListCompleted returns purchases currently in the completed status.
	ListCompleted(ctx context.Context, userID domain.UserID) ([]domain.OwnedTool, error)
}

// NewsletterRepository defines persistence for newsletter subscribers.
type NewsletterRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	// Create returns errors.ErrSubscriberExists when the email is taken.
	Create(ctx context.Context, s *domain.Subscriber) error
	Update(ctx context.Context, s *domain.Subscriber) error
}
