package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/access"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/memory"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTasks struct {
	receipts []ports.ReceiptTask
	events   []ports.DomainEvent
}

func (r *recordingTasks) EnqueuePurchaseReceipt(ctx context.Context, t ports.ReceiptTask) error {
	r.receipts = append(r.receipts, t)
	return nil
}

func (r *recordingTasks) EnqueueNewsletterWelcome(ctx context.Context, t ports.WelcomeTask) error {
	return nil
}

func (r *recordingTasks) EnqueueEvent(ctx context.Context, e ports.DomainEvent) error {
	r.events = append(r.events, e)
	return nil
}

type env struct {
	store *memory.Store
	tasks *recordingTasks
	rec   *Reconciler
	gate  *access.Gate
	user  *domain.User
	tool  *domain.Tool
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{store: memory.NewStore(), tasks: &recordingTasks{}}
	e.user = &domain.User{ID: domain.NewUserID(uuid.New()), Email: "buyer@example.com", Name: "Buyer"}
	require.NoError(t, e.store.Users().Create(ctx, e.user))
	e.tool = &domain.Tool{Slug: "seo-audit", Name: "SEO Audit Tool", PriceCents: 2999, Currency: "usd", Category: domain.CategoryIndividual, IsActive: true}
	require.NoError(t, e.store.Tools().Upsert(ctx, e.tool))
	e.rec = NewReconciler(e.store.Purchases(), e.store.Tools(), e.store.Users(), e.tasks, zerolog.Nop())
	e.gate = access.NewGate(e.store.Purchases(), zerolog.Nop())
	return e
}

func (e *env) checkoutEvent(paymentID string) *ports.PaymentEvent {
	return &ports.PaymentEvent{
		ID:          "evt_" + paymentID,
		Type:        "checkout.session.completed",
		ObjectID:    "cs_" + paymentID,
		PaymentID:   paymentID,
		AmountTotal: 2999,
		Currency:    "USD",
		Metadata:    map[string]string{"toolId": e.tool.ID.String(), "userId": e.user.ID.String()},
	}
}

func TestClassifyEventAndTransition(t *testing.T) {
	cases := []struct {
		typ    string
		kind   EventKind
		status domain.PurchaseStatus
		ok     bool
	}{
		{"checkout.session.completed", KindCheckoutCompleted, domain.PurchaseCompleted, true},
		{"payment_intent.succeeded", KindPaymentSucceeded, domain.PurchaseCompleted, true},
		{"payment_intent.payment_failed", KindPaymentFailed, domain.PurchaseFailed, true},
		{"charge.refunded", KindChargeRefunded, domain.PurchaseRefunded, true},
		{"charge.dispute.created", KindDisputeCreated, "", false},
		{"invoice.paid", KindSubscriptionLifecycle, "", false},
		{"customer.subscription.deleted", KindSubscriptionLifecycle, "", false},
		{"product.created", KindUnhandled, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			k := ClassifyEvent(tc.typ)
			assert.Equal(t, tc.kind, k)
			status, ok := Transition(k)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestReconcile_CheckoutCompletedGrantsAccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.False(t, e.gate.HasAccess(ctx, e.user.ID, "seo-audit"))

	out, err := e.rec.Reconcile(ctx, e.checkoutEvent("pi_1"))
	require.NoError(t, err)
	assert.Equal(t, ActionRecorded, out.Action)
	assert.Equal(t, domain.PurchaseCompleted, out.Status)
	assert.True(t, e.gate.HasAccess(ctx, e.user.ID, "seo-audit"))

	p, err := e.store.Purchases().GetByPaymentID(ctx, "pi_1")
	require.NoError(t, err)
	assert.EqualValues(t, 2999, p.AmountCents)
	assert.Equal(t, "usd", p.Currency)

	require.Len(t, e.tasks.receipts, 1)
	assert.Equal(t, "buyer@example.com", e.tasks.receipts[0].Email)
	assert.Equal(t, "SEO Audit Tool", e.tasks.receipts[0].ToolName)
	require.Len(t, e.tasks.events, 1)
	assert.Equal(t, "purchase.completed", e.tasks.events[0].Event)
}

func TestReconcile_ReplayedCheckoutKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	first, err := e.rec.Reconcile(ctx, e.checkoutEvent("pi_1"))
	require.NoError(t, err)
	second, err := e.rec.Reconcile(ctx, e.checkoutEvent("pi_1"))
	require.NoError(t, err)

	assert.Equal(t, first.PurchaseID, second.PurchaseID)
	owned, err := e.store.Purchases().ListCompleted(ctx, e.user.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 1)
	assert.Len(t, e.tasks.receipts, 1, "no second receipt on replay")
}

func TestReconcile_PaymentSucceededTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.rec.Reconcile(ctx, e.checkoutEvent("pi_1"))
	require.NoError(t, err)

	ev := &ports.PaymentEvent{ID: "evt_x", Type: "payment_intent.succeeded", ObjectID: "pi_1", PaymentID: "pi_1"}
	a, err := e.rec.Reconcile(ctx, ev)
	require.NoError(t, err)
	afterFirst, err := e.store.Purchases().GetByPaymentID(ctx, "pi_1")
	require.NoError(t, err)

	b, err := e.rec.Reconcile(ctx, ev)
	require.NoError(t, err)
	afterSecond, err := e.store.Purchases().GetByPaymentID(ctx, "pi_1")
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, a.Action)
	assert.Equal(t, ActionUpdated, b.Action)
	assert.Equal(t, afterFirst.ID, afterSecond.ID)
	assert.Equal(t, afterFirst.Status, afterSecond.Status)
	assert.Equal(t, domain.PurchaseCompleted, afterSecond.Status)
}

func TestReconcile_RefundStatusAndAccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.rec.Reconcile(ctx, e.checkoutEvent("pi_1"))
	require.NoError(t, err)

	out, err := e.rec.Reconcile(ctx, &ports.PaymentEvent{ID: "evt_r", Type: "charge.refunded", ObjectID: "ch_1", PaymentID: "pi_1"})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, out.Action)

	p, err := e.store.Purchases().GetByPaymentID(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseRefunded, p.Status)
	assert.Equal(t, "purchase.refunded", e.tasks.events[len(e.tasks.events)-1].Event)

	// Refunds do not revoke access. Changing this must be a deliberate decision.
	assert.True(t, e.gate.HasAccess(ctx, e.user.ID, "seo-audit"))
}

func TestReconcile_FailedPaymentWithoutPurchaseIsNoop(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	out, err := e.rec.Reconcile(ctx, &ports.PaymentEvent{ID: "evt_f", Type: "payment_intent.payment_failed", ObjectID: "pi_404", PaymentID: "pi_404"})
	require.NoError(t, err)
	assert.Equal(t, ActionNoMatch, out.Action)
	assert.Empty(t, e.tasks.events)
}

func TestReconcile_CheckoutWithoutMetadataIsDropped(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	ev := e.checkoutEvent("pi_1")
	ev.Metadata = nil
	out, err := e.rec.Reconcile(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, ActionDropped, out.Action)

	ev = e.checkoutEvent("pi_2")
	ev.Metadata["toolId"] = uuid.NewString()
	out, err = e.rec.Reconcile(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, ActionDropped, out.Action)

	p, err := e.store.Purchases().GetByPaymentID(ctx, "pi_2")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestReconcile_CheckoutWithoutPaymentIntentUsesSessionID(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ev := e.checkoutEvent("")
	ev.ObjectID = "cs_free"

	out, err := e.rec.Reconcile(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, "cs_free", out.PaymentID)
	assert.True(t, e.gate.HasAccess(ctx, e.user.ID, "seo-audit"))
}

func TestReconcile_LogOnlyKinds(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	for typ, want := range map[string]Action{
		"charge.dispute.created": ActionLogged,
		"invoice.paid":           ActionLogged,
		"product.created":        ActionIgnored,
	} {
		out, err := e.rec.Reconcile(ctx, &ports.PaymentEvent{ID: "evt", Type: typ})
		require.NoError(t, err)
		assert.Equal(t, want, out.Action, typ)
	}
}

type brokenLedger struct{ *memory.PurchaseRepository }

func (brokenLedger) UpdateStatusByPaymentID(ctx context.Context, id string, s domain.PurchaseStatus) (int64, error) {
	return 0, errors.New("db down")
}

func TestReconcile_StoreErrorSurfaces(t *testing.T) {
	store := memory.NewStore()
	rec := NewReconciler(brokenLedger{store.Purchases()}, store.Tools(), store.Users(), nil, zerolog.Nop())
	rec.now = func() time.Time { return time.Unix(0, 0) }

	_, err := rec.Reconcile(context.Background(), &ports.PaymentEvent{Type: "payment_intent.succeeded", PaymentID: "pi_1"})
	assert.Error(t, err)
}
