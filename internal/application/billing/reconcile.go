package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Metadata keys written by the checkout initiator.
const (
	metaToolID = "toolId"
	metaUserID = "userId"
)

// Action says what a reconcile call did to the ledger.
type Action string

const (
	ActionRecorded Action = "recorded"  // purchase row inserted or re-applied
	ActionUpdated  Action = "updated"   // status changed by payment id
	ActionNoMatch  Action = "no_match"  // update event for an unknown payment
	ActionDropped  Action = "dropped"   // unusable checkout event
	ActionLogged   Action = "logged"    // recognised, no ledger effect
	ActionIgnored  Action = "ignored"   // unknown type
)

type Outcome struct {
	Kind       EventKind
	Action     Action
	PaymentID  string
	PurchaseID string
	Status     domain.PurchaseStatus
}

// Reconciler applies verified provider events to the purchase ledger.
// Status writes are unconditional so replays converge on the same row;
// ordering between different event types is last write wins.
type Reconciler struct {
	purchases ports.PurchaseRepository
	tools     ports.ToolRepository
	users     ports.UserRepository
	tasks     ports.TaskEnqueuer
	log       zerolog.Logger
	now       func() time.Time
}

func NewReconciler(purchases ports.PurchaseRepository, tools ports.ToolRepository, users ports.UserRepository, tasks ports.TaskEnqueuer, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		purchases: purchases,
		tools:     tools,
		users:     users,
		tasks:     tasks,
		log:       log,
		now:       time.Now,
	}
}

// Reconcile returns an error only when the ledger could not be read or
// written; the caller should answer 5xx so the provider retries.
func (r *Reconciler) Reconcile(ctx context.Context, ev *ports.PaymentEvent) (Outcome, error) {
	kind := ClassifyEvent(ev.Type)
	log := r.log.With().Str("event_id", ev.ID).Str("event_type", ev.Type).Str("kind", kind.String()).Logger()

	switch kind {
	case KindCheckoutCompleted:
		return r.checkoutCompleted(ctx, ev, log)
	case KindPaymentSucceeded, KindPaymentFailed, KindChargeRefunded:
		return r.updateStatus(ctx, kind, ev, log)
	case KindDisputeCreated:
		log.Warn().Str("object_id", ev.ObjectID).Str("payment_id", ev.PaymentID).Msg("dispute opened")
		return Outcome{Kind: kind, Action: ActionLogged, PaymentID: ev.PaymentID}, nil
	case KindSubscriptionLifecycle:
		log.Info().Str("object_id", ev.ObjectID).Msg("subscription event")
		return Outcome{Kind: kind, Action: ActionLogged}, nil
	default:
		log.Debug().Msg("unhandled event type")
		return Outcome{Kind: kind, Action: ActionIgnored}, nil
	}
}

func (r *Reconciler) checkoutCompleted(ctx context.Context, ev *ports.PaymentEvent, log zerolog.Logger) (Outcome, error) {
	out := Outcome{Kind: KindCheckoutCompleted, Action: ActionDropped}
	toolID, errTool := uuid.Parse(ev.Metadata[metaToolID])
	userID, errUser := uuid.Parse(ev.Metadata[metaUserID])
	if errTool != nil || errUser != nil {
		log.Warn().Str("object_id", ev.ObjectID).Msg("checkout without usable toolId/userId metadata")
		return out, nil
	}
	// Sessions paid without a payment intent are correlated by their own id.
	paymentID := ev.PaymentID
	if paymentID == "" {
		paymentID = ev.ObjectID
	}
	out.PaymentID = paymentID
	if paymentID == "" {
		log.Warn().Msg("checkout without payment reference")
		return out, nil
	}

	tool, err := r.tools.GetByID(ctx, domain.NewToolID(toolID))
	if err != nil {
		return out, fmt.Errorf("load tool: %w", err)
	}
	user, err := r.users.GetByID(ctx, domain.NewUserID(userID))
	if err != nil {
		return out, fmt.Errorf("load user: %w", err)
	}
	if tool == nil || user == nil {
		log.Warn().Str("tool_id", toolID.String()).Str("user_id", userID.String()).Msg("checkout for unknown tool or user")
		return out, nil
	}

	previous, err := r.purchases.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return out, fmt.Errorf("load purchase: %w", err)
	}
	status, _ := Transition(KindCheckoutCompleted)
	currency := strings.ToLower(ev.Currency)
	if currency == "" {
		currency = "usd"
	}
	now := r.now()
	purchase := &domain.Purchase{
		ID:              domain.NewPurchaseID(uuid.New()),
		UserID:          user.ID,
		ToolID:          tool.ID,
		StripePaymentID: paymentID,
		AmountCents:     ev.AmountTotal,
		Currency:        currency,
		CreatedAt:       now,
	}
	purchase.ApplyStatus(status, now)
	if err := r.purchases.Record(ctx, purchase); err != nil {
		return out, err
	}
	out.Action = ActionRecorded
	out.PurchaseID = purchase.ID.String()
	out.Status = purchase.Status
	log.Info().Str("purchase_id", out.PurchaseID).Str("payment_id", paymentID).Msg("purchase recorded")

	if previous == nil || !previous.Entitles() {
		r.sendReceipt(ctx, user, tool, purchase, log)
		r.publish(ctx, purchase, log)
	}
	return out, nil
}

func (r *Reconciler) updateStatus(ctx context.Context, kind EventKind, ev *ports.PaymentEvent, log zerolog.Logger) (Outcome, error) {
	status, _ := Transition(kind)
	out := Outcome{Kind: kind, Action: ActionNoMatch, PaymentID: ev.PaymentID, Status: status}
	if ev.PaymentID == "" {
		log.Warn().Str("object_id", ev.ObjectID).Msg("event without payment id")
		return out, nil
	}
	n, err := r.purchases.UpdateStatusByPaymentID(ctx, ev.PaymentID, status)
	if err != nil {
		return out, fmt.Errorf("update purchase status: %w", err)
	}
	if n == 0 {
		log.Info().Str("payment_id", ev.PaymentID).Msg("no purchase for payment")
		return out, nil
	}
	out.Action = ActionUpdated
	purchase, err := r.purchases.GetByPaymentID(ctx, ev.PaymentID)
	if err != nil {
		log.Warn().Err(err).Msg("reload purchase after update")
		return out, nil
	}
	if purchase != nil {
		out.PurchaseID = purchase.ID.String()
		r.publish(ctx, purchase, log)
	}
	log.Info().Str("payment_id", ev.PaymentID).Str("status", string(status)).Msg("purchase status updated")
	return out, nil
}

func (r *Reconciler) sendReceipt(ctx context.Context, user *domain.User, tool *domain.Tool, p *domain.Purchase, log zerolog.Logger) {
	if r.tasks == nil {
		return
	}
	err := r.tasks.EnqueuePurchaseReceipt(ctx, ports.ReceiptTask{
		Email:       user.Email,
		Name:        user.Name,
		ToolName:    tool.Name,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		PaymentID:   p.StripePaymentID,
	})
	if err != nil {
		log.Error().Err(err).Msg("enqueue purchase receipt")
	}
}

func (r *Reconciler) publish(ctx context.Context, p *domain.Purchase, log zerolog.Logger) {
	if r.tasks == nil {
		return
	}
	err := r.tasks.EnqueueEvent(ctx, ports.DomainEvent{
		Event:      "purchase." + string(p.Status),
		PurchaseID: p.ID.String(),
		UserID:     p.UserID.String(),
		ToolID:     p.ToolID.String(),
		PaymentID:  p.StripePaymentID,
		Status:     string(p.Status),
		OccurredAt: r.now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("enqueue purchase event")
	}
}
