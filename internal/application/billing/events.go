// Package billing reconciles payment provider events into the purchase ledger.
package billing

import "github.com/S0l0-dev-000/SEO-Tools/internal/domain"

// EventKind is the closed set of provider events the reconciler knows.
type EventKind int

const (
	KindUnhandled EventKind = iota
	KindCheckoutCompleted
	KindPaymentSucceeded
	KindPaymentFailed
	KindChargeRefunded
	KindDisputeCreated
	KindSubscriptionLifecycle
)

var kindNames = map[EventKind]string{
	KindUnhandled:             "unhandled",
	KindCheckoutCompleted:     "checkout_completed",
	KindPaymentSucceeded:      "payment_succeeded",
	KindPaymentFailed:         "payment_failed",
	KindChargeRefunded:        "charge_refunded",
	KindDisputeCreated:        "dispute_created",
	KindSubscriptionLifecycle: "subscription_lifecycle",
}

func (k EventKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ClassifyEvent maps a Stripe event type onto an EventKind.
func ClassifyEvent(eventType string) EventKind {
	switch eventType {
	case "checkout.session.completed":
		return KindCheckoutCompleted
	case "payment_intent.succeeded":
		return KindPaymentSucceeded
	case "payment_intent.payment_failed":
		return KindPaymentFailed
	case "charge.refunded":
		return KindChargeRefunded
	case "charge.dispute.created":
		return KindDisputeCreated
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted",
		"invoice.payment_succeeded",
		"invoice.paid",
		"invoice.payment_failed":
		return KindSubscriptionLifecycle
	default:
		return KindUnhandled
	}
}

// Transition returns the purchase status an event drives the ledger to.
// ok is false for kinds that never touch a purchase.
func Transition(k EventKind) (status domain.PurchaseStatus, ok bool) {
	switch k {
	case KindCheckoutCompleted, KindPaymentSucceeded:
		return domain.PurchaseCompleted, true
	case KindPaymentFailed:
		return domain.PurchaseFailed, true
	case KindChargeRefunded:
		return domain.PurchaseRefunded, true
	default:
		return "", false
	}
}
