package chat

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carebot/internal/modules/account"
	"carebot/internal/modules/aiusage"
	"carebot/internal/modules/pricing"
	"carebot/internal/types"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type brokenOrders struct {
	*account.MemoryStore
}

func (brokenOrders) AddOrder(context.Context, types.ID, *account.Order) error {
	return errors.New("connection reset")
}

type fixedGuard struct {
	allow bool
	err   error
	calls int
}

func (g *fixedGuard) Acquire(context.Context, types.ID, types.Product, types.Plan) (bool, error) {
	g.calls++
	return g.allow, g.err
}

type harness struct {
	svc      *Service
	accounts *account.Service
	gen      *stubGenerator
	sessions *MemorySessionStore
}

func newHarness(t *testing.T, repo account.Repository, guard ConfirmationGuard) *harness {
	t.Helper()
	if repo == nil {
		repo = account.NewMemoryStore(account.SampleAccounts()...)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	accounts := account.NewService(repo)
	gen := &stubGenerator{reply: "Hi Emma,\n\n\nHere is your answer.\n\n  - item"}
	sessions := NewMemorySessionStore()
	catalog := pricing.NewService(nil)
	svc := NewService(Deps{
		Accounts:  accounts,
		Generator: gen,
		Catalog:   catalog,
		Composer:  NewComposer("", catalog),
		Sessions:  sessions,
		Guard:     guard,
		Log:       logrus.NewEntry(logger),
	})
	return &harness{svc: svc, accounts: accounts, gen: gen, sessions: sessions}
}

func (h *harness) orderCount(t *testing.T, id types.ID) int {
	t.Helper()
	a, err := h.accounts.Get(context.Background(), id)
	require.NoError(t, err)
	return len(a.Orders)
}

func TestHandleQueryGeneratesWithoutOrderFlow(t *testing.T) {
	h := newHarness(t, nil, nil)
	before := h.orderCount(t, "user1")

	reply, err := h.svc.Handle(context.Background(), Request{Message: "show me my recent order", AccountID: "user1"})
	require.NoError(t, err)

	assert.Equal(t, "Hi Emma,\nHere is your answer.\n- item", reply.Reply)
	assert.False(t, reply.OrderPlaced)
	assert.False(t, reply.IsOrderIntent)
	assert.Empty(t, reply.OrderID)
	require.Equal(t, 1, h.gen.calls())
	assert.NotContains(t, h.gen.prompts[0], "Available products")
	assert.Equal(t, before, h.orderCount(t, "user1"))
}

func TestHandleOrderIntentProposes(t *testing.T) {
	h := newHarness(t, nil, nil)
	before := h.orderCount(t, "user1")

	reply, err := h.svc.Handle(context.Background(), Request{Message: "I want to buy a new phone with premium plan", AccountID: "user1"})
	require.NoError(t, err)

	assert.True(t, reply.IsOrderIntent)
	assert.False(t, reply.OrderPlaced)
	assert.Equal(t, types.ProductPhone, reply.Product)
	assert.Equal(t, types.PlanPremium, reply.Plan)
	require.Equal(t, 1, h.gen.calls())
	assert.Contains(t, h.gen.prompts[0], "Confirm order: Yes, product: [PRODUCT], plan: [PLAN]")
	assert.Equal(t, before, h.orderCount(t, "user1"))
}

func TestHandleConfirmationCommitsWithoutGenerating(t *testing.T) {
	h := newHarness(t, nil, nil)
	before := h.orderCount(t, "user1")

	reply, err := h.svc.Handle(context.Background(), Request{Message: "Confirm order: Yes, product: TV, plan: Basic", AccountID: "user1"})
	require.NoError(t, err)

	assert.True(t, reply.OrderPlaced)
	assert.False(t, reply.IsOrderIntent)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, string(reply.OrderID))
	assert.Equal(t, types.ProductTV, reply.Product)
	assert.Equal(t, types.PlanBasic, reply.Plan)
	assert.Contains(t, reply.Reply, "Great! Your order for **TV** with the **Basic** plan has been confirmed.")
	assert.Contains(t, reply.Reply, string(reply.OrderID))
	assert.Contains(t, reply.Reply, "€15.00")
	assert.Zero(t, h.gen.calls())

	acct, err := h.accounts.Get(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, acct.Orders, before+1)
	last := acct.Orders[len(acct.Orders)-1]
	assert.Equal(t, reply.OrderID, last.ID)
	assert.Equal(t, account.StatusActive, last.Status)
}

func TestHandleConfirmationFallsBackToDefaults(t *testing.T) {
	h := newHarness(t, nil, nil)

	reply, err := h.svc.Handle(context.Background(), Request{Message: "confirm order yes", AccountID: "user2"})
	require.NoError(t, err)

	assert.True(t, reply.OrderPlaced)
	assert.Equal(t, types.ProductSIM, reply.Product)
	assert.Equal(t, types.PlanUnlimited, reply.Plan)
}

func TestHandleEveryConfirmationCommitsAgain(t *testing.T) {
	h := newHarness(t, nil, nil)
	before := h.orderCount(t, "user1")
	msg := Request{Message: "Confirm order: Yes, product: SIM, plan: Family", AccountID: "user1"}

	first, err := h.svc.Handle(context.Background(), msg)
	require.NoError(t, err)
	second, err := h.svc.Handle(context.Background(), msg)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.Equal(t, before+2, h.orderCount(t, "user1"))
}

func TestHandleUnknownAccount(t *testing.T) {
	h := newHarness(t, nil, nil)

	_, err := h.svc.Handle(context.Background(), Request{Message: "Confirm order: Yes, product: TV, plan: Basic", AccountID: "nobody"})
	require.ErrorIs(t, err, account.ErrAccountNotFound)

	_, err = h.svc.Handle(context.Background(), Request{Message: "hello", AccountID: "nobody"})
	require.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.Zero(t, h.gen.calls())
}

func TestHandleEmptyMessage(t *testing.T) {
	h := newHarness(t, nil, nil)
	_, err := h.svc.Handle(context.Background(), Request{Message: "   ", AccountID: "user1"})
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestHandlePersistenceFailureApologises(t *testing.T) {
	repo := brokenOrders{account.NewMemoryStore(account.SampleAccounts()...)}
	h := newHarness(t, repo, nil)

	reply, err := h.svc.Handle(context.Background(), Request{Message: "Confirm order: Yes, product: Internet, plan: Premium", AccountID: "user1"})
	require.NoError(t, err)

	assert.False(t, reply.OrderPlaced)
	assert.Empty(t, reply.OrderID)
	assert.Equal(t, "I'm sorry, but there was an error processing your order. Please try again later or contact our customer service at 1200.", reply.Reply)
	assert.Zero(t, h.gen.calls())
}

func TestHandleGeneratorFailure(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.gen.err = errors.New("quota exceeded")

	_, err := h.svc.Handle(context.Background(), Request{Message: "why is my bill so high", AccountID: "user1"})
	require.ErrorIs(t, err, ErrGenerativeUnavailable)

	sess, err := h.svc.Session(context.Background(), "user1")
	require.NoError(t, err)
	assert.Len(t, sess.Turns, 1)
}

func TestHandleGuardBlocksDuplicate(t *testing.T) {
	guard := &fixedGuard{allow: false}
	h := newHarness(t, nil, guard)
	before := h.orderCount(t, "user1")

	reply, err := h.svc.Handle(context.Background(), Request{Message: "Confirm order: Yes, product: TV, plan: Basic", AccountID: "user1"})
	require.NoError(t, err)

	assert.False(t, reply.OrderPlaced)
	assert.Contains(t, reply.Reply, "already confirmed")
	assert.Equal(t, 1, guard.calls)
	assert.Equal(t, before, h.orderCount(t, "user1"))
}

func TestHandleGuardErrorStillCommits(t *testing.T) {
	guard := &fixedGuard{err: errors.New("redis down")}
	h := newHarness(t, nil, guard)

	reply, err := h.svc.Handle(context.Background(), Request{Message: "Confirm order: Yes, product: TV, plan: Basic", AccountID: "user1"})
	require.NoError(t, err)
	assert.True(t, reply.OrderPlaced)
}

func TestSessionRecordsTurnsAndResets(t *testing.T) {
	h := newHarness(t, nil, nil)
	ctx := context.Background()

	sess, err := h.svc.Session(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, sess.Turns, 1)
	assert.Equal(t, Greeting, sess.Turns[0].Text)
	assert.False(t, sess.Turns[0].FromUser)

	_, err = h.svc.Handle(ctx, Request{Message: "show my last order", AccountID: "user1"})
	require.NoError(t, err)

	sess, err = h.svc.Session(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, sess.Turns, 3)
	assert.Equal(t, "show my last order", sess.Turns[1].Text)
	assert.True(t, sess.Turns[1].FromUser)
	assert.False(t, sess.Turns[2].FromUser)

	other, err := h.svc.Session(ctx, "user2")
	require.NoError(t, err)
	assert.Len(t, other.Turns, 1)

	reset, err := h.svc.ResetSession(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, reset.Turns, 1)
	assert.Equal(t, Greeting, reset.Turns[0].Text)

	sess, err = h.svc.Session(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, sess.Turns, 1)

	_, err = h.svc.Session(ctx, "nobody")
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestHandleGeneratorFailureKeepsAllowance(t *testing.T) {
	h := newHarness(t, nil, nil)
	usage := aiusage.NewService(aiusage.NewMemoryStore(), 2)
	h.svc.allowance = usage
	ctx := context.Background()

	require.NoError(t, usage.UseToken(ctx, "user1"))
	before, err := usage.Remaining(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, 1, before)

	h.gen.err = errors.New("transient")
	_, err = h.svc.Handle(ctx, Request{Message: "why is my bill so high", AccountID: "user1"})
	require.ErrorIs(t, err, ErrGenerativeUnavailable)

	after, err := usage.Remaining(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// The refunded token is still usable.
	h.gen.err = nil
	_, err = h.svc.Handle(ctx, Request{Message: "why is my bill so high", AccountID: "user1"})
	require.NoError(t, err)
}

func TestHandleAllowanceExhausted(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.svc.allowance = aiusage.NewService(aiusage.NewMemoryStore(), 1)
	ctx := context.Background()

	_, err := h.svc.Handle(ctx, Request{Message: "hello", AccountID: "user1"})
	require.NoError(t, err)
	_, err = h.svc.Handle(ctx, Request{Message: "hello again", AccountID: "user1"})
	require.ErrorIs(t, err, aiusage.ErrInsufficientTokens)
	assert.Equal(t, 1, h.gen.calls())

	// Confirmations never spend the allowance.
	reply, err := h.svc.Handle(ctx, Request{Message: "Confirm order: Yes, product: TV, plan: Basic", AccountID: "user1"})
	require.NoError(t, err)
	assert.True(t, reply.OrderPlaced)
}
