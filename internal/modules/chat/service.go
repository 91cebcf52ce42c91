// README: Chat turn pipeline (resolve account -> classify -> commit or compose+generate -> respond).
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"carebot/internal/ai"
	"carebot/internal/modules/account"
	"carebot/internal/modules/intent"
	"carebot/internal/modules/pricing"
	"carebot/internal/types"
)

var (
	ErrGenerativeUnavailable = errors.New("assistant is unavailable")
	ErrEmptyMessage          = errors.New("message is required")
)

const DefaultSupportPhone = "1200"

// Allowance limits generated replies per account; aiusage.Service satisfies it.
// A token spent on a failed generation is refunded.
type Allowance interface {
	UseToken(ctx context.Context, accountID string) error
	Refund(ctx context.Context, accountID string) error
}

// Accounts is the slice of the account service the pipeline needs.
type Accounts interface {
	Get(ctx context.Context, id types.ID) (*account.Account, error)
	PlaceOrder(ctx context.Context, cmd account.PlaceOrderCommand) (types.ID, error)
}

type Request struct {
	Message   string   `json:"message"`
	AccountID types.ID `json:"accountId"`
}

type Reply struct {
	Reply         string        `json:"reply"`
	OrderPlaced   bool          `json:"orderPlaced"`
	OrderID       types.ID      `json:"orderId,omitempty"`
	IsOrderIntent bool          `json:"isOrderIntent"`
	Product       types.Product `json:"product,omitempty"`
	Plan          types.Plan    `json:"plan,omitempty"`
}

type Deps struct {
	Accounts  Accounts
	Generator ai.Generator
	Composer  *Composer
	Catalog   *pricing.Service
	// Sessions is optional; turns are not recorded when nil.
	Sessions SessionStore
	// Guard is optional; every confirmation commits when nil.
	Guard ConfirmationGuard
	// Allowance is optional; generation is unlimited when nil.
	Allowance    Allowance
	SupportPhone string
	Log          *logrus.Entry
}

type Service struct {
	accounts     Accounts
	generator    ai.Generator
	composer     *Composer
	catalog      *pricing.Service
	sessions     SessionStore
	guard        ConfirmationGuard
	allowance    Allowance
	supportPhone string
	log          *logrus.Entry
	now          func() time.Time
}

func NewService(d Deps) *Service {
	if d.Composer == nil {
		d.Composer = NewComposer("", d.Catalog)
	}
	if d.SupportPhone == "" {
		d.SupportPhone = DefaultSupportPhone
	}
	if d.Log == nil {
		d.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		accounts:     d.Accounts,
		generator:    d.Generator,
		composer:     d.Composer,
		catalog:      d.Catalog,
		sessions:     d.Sessions,
		guard:        d.Guard,
		allowance:    d.Allowance,
		supportPhone: d.SupportPhone,
		log:          d.Log.WithField("component", "chat"),
		now:          time.Now,
	}
}

// Handle runs one message through the pipeline. A confirmation commits an order
// without calling the generator; every other message is answered by it.
func (s *Service) Handle(ctx context.Context, req Request) (*Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	acct, err := s.accounts.Get(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	log := s.log.WithField("account_id", acct.ID)
	r := intent.Classify(message)
	log = log.WithField("intent", r.Kind)

	var reply *Reply
	pending := intent.Advance(r)
	if pending.Committable() {
		if r.Defaulted {
			log.WithFields(logrus.Fields{"product": r.Product, "plan": r.Plan}).
				Warn("confirmation without recognisable product or plan; committing defaults")
		}
		reply, err = s.commit(ctx, log, acct.ID, pending)
	} else {
		reply, err = s.respond(ctx, log, acct, message, r)
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, log, acct.ID, message, reply.Reply)
	return reply, nil
}

func (s *Service) commit(ctx context.Context, log *logrus.Entry, accountID types.ID, p *intent.PendingOrder) (*Reply, error) {
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, accountID, p.Product, p.Plan)
		if err != nil {
			log.WithError(err).Warn("confirmation guard unavailable; committing anyway")
		} else if !ok {
			log.Info("duplicate confirmation ignored")
			return &Reply{
				Reply:   fmt.Sprintf("Your order for **%s** with the **%s** plan was already confirmed a moment ago. Is there anything else I can help you with?", p.Product, p.Plan),
				Product: p.Product,
				Plan:    p.Plan,
			}, nil
		}
	}

	id, err := s.accounts.PlaceOrder(ctx, account.PlaceOrderCommand{AccountID: accountID, Product: p.Product, Plan: p.Plan})
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, err
		}
		log.WithError(err).Error("order commit failed")
		return &Reply{
			Reply: fmt.Sprintf("I'm sorry, but there was an error processing your order. Please try again later or contact our customer service at %s.", s.supportPhone),
		}, nil
	}
	if err := p.Commit(id); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"order_id": id, "product": p.Product, "plan": p.Plan}).Info("order committed")

	return &Reply{
		Reply:       s.confirmationText(p),
		OrderPlaced: true,
		OrderID:     id,
		Product:     p.Product,
		Plan:        p.Plan,
	}, nil
}

func (s *Service) confirmationText(p *intent.PendingOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Great! Your order for **%s** with the **%s** plan has been confirmed. ", p.Product, p.Plan)
	fmt.Fprintf(&b, "Your order number is **%s**. The service will be active starting today.", p.OrderID)
	if s.catalog != nil {
		if rate, err := s.catalog.Quote(p.Product, p.Plan); err == nil {
			fmt.Fprintf(&b, " Your monthly price is **%s**.", rate.Monthly)
		}
	}
	b.WriteString("\n\nIs there anything else I can help you with?")
	return b.String()
}

func (s *Service) respond(ctx context.Context, log *logrus.Entry, acct *account.Account, message string, r intent.Result) (*Reply, error) {
	if s.generator == nil {
		return nil, ErrGenerativeUnavailable
	}
	if s.allowance != nil {
		if err := s.allowance.UseToken(ctx, string(acct.ID)); err != nil {
			return nil, err
		}
	}
	prompt := s.composer.Compose(acct, message, r)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if s.allowance != nil {
			// ctx may already be past its deadline.
			if rerr := s.allowance.Refund(context.WithoutCancel(ctx), string(acct.ID)); rerr != nil {
				log.WithError(rerr).Warn("allowance refund failed")
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerativeUnavailable, err)
	}
	reply := &Reply{
		Reply:         Normalize(text),
		IsOrderIntent: r.Kind == intent.KindOrderIntent,
	}
	if reply.IsOrderIntent {
		reply.Product = r.Product
		reply.Plan = r.Plan
	}
	return reply, nil
}

// record appends the exchange to the session. Failures are logged only.
func (s *Service) record(ctx context.Context, log *logrus.Entry, accountID types.ID, message, reply string) {
	if s.sessions == nil {
		return
	}
	now := s.now()
	err := s.sessions.Append(ctx, accountID,
		Turn{Text: message, FromUser: true, Timestamp: now},
		Turn{Text: reply, FromUser: false, Timestamp: now},
	)
	if err != nil {
		log.WithError(err).Warn("session append failed")
	}
}

// Session returns the conversation for an existing account.
func (s *Service) Session(ctx context.Context, accountID types.ID) (*Session, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	if s.sessions == nil {
		return NewSession(accountID, s.now()), nil
	}
	return s.sessions.Load(ctx, accountID)
}

// ResetSession discards all turns and returns the fresh greeting-only session.
func (s *Service) ResetSession(ctx context.Context, accountID types.ID) (*Session, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	if s.sessions != nil {
		if err := s.sessions.Reset(ctx, accountID); err != nil {
			return nil, err
		}
	}
	return NewSession(accountID, s.now()), nil
}
