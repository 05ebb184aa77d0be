package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/access"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/auth"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/billing"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/catalog"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/checkout"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/newsletter"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/application/purchases"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	authinfra "github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/auth"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/events"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/handlers"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/lockout"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/mail"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/payment"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/memory"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/queue"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/security"
)

const webhookSecret = "whsec_router_test"

type fakeProvider struct {
	calls []ports.CheckoutRequest
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	p.calls = append(p.calls, req)
	id := fmt.Sprintf("cs_test_%d", len(p.calls))
	return &ports.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/" + id}, nil
}

type testEnv struct {
	router   http.Handler
	store    *memory.Store
	provider *fakeProvider
}

func newTestEnv(t *testing.T, opts ...func(*RouterConfig)) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	cat := catalog.New(store.Tools())
	_, err := cat.Seed(context.Background())
	require.NoError(t, err)

	hasher := security.NewBcryptHasher(0)
	sessions := auth.NewSessionManager(store.Sessions(), authinfra.NewSessionSigner("test-secret", "seotools"), log)
	tasks := queue.NewInlineEnqueuer(queue.NewHandlers(mail.NewLogMailer(log), events.NewNoopPublisher(), log), log)
	provider := &fakeProvider{}
	gate := access.NewGate(store.Purchases(), log)

	cfg := RouterConfig{
		AuthHandler: handlers.NewAuthHandler(
			auth.NewRegisterUser(store.Users(), hasher),
			auth.NewLogin(store.Users(), hasher, sessions, lockout.NewMemoryStore(5, time.Minute)),
			sessions,
			auth.NewGetCurrentUser(store.Users()),
			false, log),
		HealthHandler:    handlers.NewHealthHandler(store, nil, log),
		ToolsHandler:     handlers.NewToolsHandler(cat, gate, log),
		PurchasesHandler: handlers.NewPurchasesHandler(purchases.NewListOwned(store.Purchases()), log),
		CheckoutHandler: handlers.NewCheckoutHandler(
			checkout.NewInitiator(sessions, store.Tools(), store.Purchases(), provider, "http://localhost:3000/"), log),
		WebhookHandler: handlers.NewWebhookHandler(
			payment.NewStripeWebhookVerifier(webhookSecret),
			billing.NewReconciler(store.Purchases(), store.Tools(), store.Users(), tasks, log), log),
		NewsletterHandler: handlers.NewNewsletterHandler(newsletter.NewSubscribe(store.Newsletter(), tasks, log), log),
		AdminHandler:      handlers.NewAdminHandler(cat, store.Sessions(), store.Purchases(), log),
		Sessions:          middleware.NewSessionAuth(sessions),
		RequireAdmin:      middleware.RequireAdminSecret("admin-secret"),
		Log:               log,
		Metrics:           true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &testEnv{router: NewRouter(cfg), store: store, provider: provider}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if buf.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin is scenario A's first half.
func (e *testEnv) registerAndLogin(t *testing.T, email string) (*http.Cookie, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", map[string]string{"email": email, "password": "Secret123!", "name": "Alice"}, nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	userID := decode(t, rec)["user"].(map[string]interface{})["id"].(string)

	rec = e.do(t, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": "Secret123!"}, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec), userID
}

func (e *testEnv) postWebhook(t *testing.T, payload string, secret string) *httptest.ResponseRecorder {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return e.do(t, http.MethodPost, "/webhooks/payment", payload, nil, map[string]string{"Stripe-Signature": signed.Header})
}

func checkoutCompletedPayload(toolID, userID string) string {
	return `{"id":"evt_cs_1","object":"event","type":"checkout.session.completed","data":{"object":{` +
		`"id":"cs_test_1","object":"checkout.session","amount_total":2999,"currency":"usd","payment_intent":"pi_alice_1",` +
		`"metadata":{"toolId":"` + toolID + `","userId":"` + userID + `"}}}}`
}

func (e *testEnv) toolID(t *testing.T, slug string) string {
	t.Helper()
	tool, err := e.store.Tools().GetBySlug(context.Background(), slug)
	require.NoError(t, err)
	require.NotNil(t, tool)
	return tool.ID.String()
}

func TestScenarioA_RegisterLoginNoAccess(t *testing.T) {
	e := newTestEnv(t)
	cookie, _ := e.registerAndLogin(t, "alice@example.com")

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	rec := e.do(t, http.MethodGet, "/tools/seo-audit/access", nil, cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasAccess":false}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = e.do(t, http.MethodGet, "/auth/me", nil, cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", decode(t, rec)["user"].(map[string]interface{})["email"])
}

func TestScenarioB_CheckoutThenWebhookGrantsAccess(t *testing.T) {
	e := newTestEnv(t)
	cookie, userID := e.registerAndLogin(t, "alice@example.com")

	rec := e.do(t, http.MethodPost, "/checkout", map[string]string{"toolSlug": "seo-audit"}, cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "cs_test_1", out["sessionId"])
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", out["url"])

	require.Len(t, e.provider.calls, 1)
	call := e.provider.calls[0]
	assert.EqualValues(t, 2999, call.UnitAmount)
	assert.Equal(t, userID, call.UserID)
	assert.Equal(t, "http://localhost:3000/dashboard?success=true", call.SuccessURL)
	assert.Equal(t, "http://localhost:3000/pricing?canceled=true", call.CancelURL)

	toolID := e.toolID(t, "seo-audit")
	rec = e.postWebhook(t, checkoutCompletedPayload(toolID, userID), webhookSecret)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())

	p, err := e.store.Purchases().GetByPaymentID(context.Background(), "pi_alice_1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 29.99, p.Amount(), 1e-9)
	assert.Equal(t, domain.PurchaseCompleted, p.Status)

	rec = e.do(t, http.MethodGet, "/tools/seo-audit/access", nil, cookie, nil)
	assert.JSONEq(t, `{"hasAccess":true}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/purchases", nil, cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["purchases"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "seo-audit", list[0].(map[string]interface{})["tool"].(map[string]interface{})["slug"])

	// A refund keeps access.
	refund := `{"id":"evt_ch_1","object":"event","type":"charge.refunded","data":{"object":{` +
		`"id":"ch_1","object":"charge","amount":2999,"currency":"usd","payment_intent":"pi_alice_1"}}}`
	rec = e.postWebhook(t, refund, webhookSecret)
	require.Equal(t, http.StatusOK, rec.Code)
	p, _ = e.store.Purchases().GetByPaymentID(context.Background(), "pi_alice_1")
	assert.Equal(t, domain.PurchaseRefunded, p.Status)
	rec = e.do(t, http.MethodGet, "/tools/seo-audit/access", nil, cookie, nil)
	assert.JSONEq(t, `{"hasAccess":true}`, rec.Body.String())
}

func TestCheckout_RefundedBuyerCanBuyAgain(t *testing.T) {
	e := newTestEnv(t)
	cookie, userID := e.registerAndLogin(t, "alice@example.com")
	rec := e.postWebhook(t, checkoutCompletedPayload(e.toolID(t, "seo-audit"), userID), webhookSecret)
	require.Equal(t, http.StatusOK, rec.Code)
	refund := `{"id":"evt_ch_1","object":"event","type":"charge.refunded","data":{"object":{` +
		`"id":"ch_1","object":"charge","amount":2999,"currency":"usd","payment_intent":"pi_alice_1"}}}`
	rec = e.postWebhook(t, refund, webhookSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/checkout", map[string]string{"toolSlug": "seo-audit"}, cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, e.provider.calls, 1)
}

func TestWebhook_NotSubjectToIPRateLimit(t *testing.T) {
	store, err := middleware.NewLimiterStore(nil)
	require.NoError(t, err)
	ipLimit, err := middleware.NewIPRateLimiter("3-M", store)
	require.NoError(t, err)
	e := newTestEnv(t, func(cfg *RouterConfig) { cfg.IPRateLimit = ipLimit })

	payload := `{"id":"evt_prod_1","object":"event","type":"product.created","data":{"object":{"id":"prod_1","object":"product"}}}`
	for i := 0; i < 5; i++ {
		rec := e.postWebhook(t, payload, webhookSecret)
		assert.Equal(t, http.StatusOK, rec.Code, "delivery %d", i+1)
	}

	var codes []int
	for i := 0; i < 5; i++ {
		codes = append(codes, e.do(t, http.MethodGet, "/tools", nil, nil, nil).Code)
	}
	assert.Contains(t, codes, http.StatusTooManyRequests, "other routes stay limited")
}

func TestWebhook_UndecodableEventIsNotReportedAsBadSignature(t *testing.T) {
	e := newTestEnv(t)
	payload := `{"id":"evt_cs_bad","object":"event","type":"checkout.session.completed","data":{"object":{` +
		`"id":"cs_bad","object":"checkout.session","amount_total":"oops"}}}`

	rec := e.postWebhook(t, payload, webhookSecret)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_event", decode(t, rec)["code"])
}

func TestScenarioC_InvalidSignatureTouchesNothing(t *testing.T) {
	e := newTestEnv(t)
	_, userID := e.registerAndLogin(t, "alice@example.com")
	payload := checkoutCompletedPayload(e.toolID(t, "seo-audit"), userID)

	rec := e.postWebhook(t, payload, "whsec_wrong")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/webhooks/payment", payload, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p, err := e.store.Purchases().GetByPaymentID(context.Background(), "pi_alice_1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestScenarioD_AlreadyPurchasedSkipsProvider(t *testing.T) {
	e := newTestEnv(t)
	cookie, userID := e.registerAndLogin(t, "alice@example.com")
	rec := e.postWebhook(t, checkoutCompletedPayload(e.toolID(t, "seo-audit"), userID), webhookSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/checkout", map[string]string{"toolSlug": "seo-audit"}, cookie, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have already purchased this tool", decode(t, rec)["error"])
	assert.Empty(t, e.provider.calls)
}

func TestCheckout_Errors(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/checkout", map[string]string{"toolSlug": "seo-audit"}, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie, _ := e.registerAndLogin(t, "bob@example.com")
	rec = e.do(t, http.MethodPost, "/checkout", map[string]string{"toolSlug": "nope"}, cookie, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, e.provider.calls)
}

func TestLogout_ClearsCookieAndSession(t *testing.T) {
	e := newTestEnv(t)
	cookie, _ := e.registerAndLogin(t, "alice@example.com")

	rec := e.do(t, http.MethodPost, "/logout", nil, cookie, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, rec.Body.String())
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)

	rec = e.do(t, http.MethodGet, "/auth/me", nil, cookie, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// no session at all still succeeds
	rec = e.do(t, http.MethodPost, "/auth/logout", nil, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sessionCookie(t, rec).Value)
}

func TestAuth_Errors(t *testing.T) {
	e := newTestEnv(t)
	e.registerAndLogin(t, "alice@example.com")

	rec := e.do(t, http.MethodPost, "/auth/register", map[string]string{"email": "ALICE@example.com", "password": "Secret123!"}, nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/register", map[string]string{"email": "carol@example.com", "password": "short"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "alice@example.com", "password": "wrong-password"}, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decode(t, rec)["code"])

	rec = e.do(t, http.MethodGet, "/tools/seo-audit/access", nil, &http.Cookie{Name: middleware.SessionCookieName, Value: "forged"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTools_ListAndGet(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/tools", nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tools := decode(t, rec)["tools"].([]interface{})
	assert.Len(t, tools, 9)

	rec = e.do(t, http.MethodGet, "/tools?category=package", nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, raw := range decode(t, rec)["tools"].([]interface{}) {
		assert.Equal(t, "package", raw.(map[string]interface{})["category"])
	}

	rec = e.do(t, http.MethodGet, "/tools?category=bundle", nil, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/tools/seo-audit", nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tool := decode(t, rec)["tool"].(map[string]interface{})
	assert.InDelta(t, 29.99, tool["price"], 1e-9)
	assert.NotContains(t, tool, "hasAccess")

	cookie, _ := e.registerAndLogin(t, "alice@example.com")
	rec = e.do(t, http.MethodGet, "/tools/seo-audit", nil, cookie, nil)
	assert.Equal(t, false, decode(t, rec)["tool"].(map[string]interface{})["hasAccess"])

	rec = e.do(t, http.MethodGet, "/tools/unknown", nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewsletter(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/newsletter", map[string]string{"name": "Ann"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", decode(t, rec)["error"])

	rec = e.do(t, http.MethodPost, "/newsletter", map[string]string{"email": "not-an-email"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email format", decode(t, rec)["error"])

	rec = e.do(t, http.MethodPost, "/newsletter", map[string]string{"email": "reader@example.com", "name": "Ann"}, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully subscribed to newsletter", decode(t, rec)["message"])

	rec = e.do(t, http.MethodPost, "/newsletter", map[string]string{"email": "reader@example.com"}, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Successfully updated subscription", out["message"])
	assert.Equal(t, "Ann", out["subscriber"].(map[string]interface{})["name"])
}

func TestHealthAndAdmin(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/health", nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	rec = e.do(t, http.MethodGet, "/metrics", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/admin/catalog/seed", nil, nil, map[string]string{"X-Admin-Secret": "admin-secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"upserted":9}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/admin/purchases/pi_missing", nil, nil, map[string]string{"X-Admin-Secret": "admin-secret"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/newsletter", strings.NewReader("email=a@b.co"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
