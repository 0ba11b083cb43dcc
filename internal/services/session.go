package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"meudinheiro/internal/aggregate"
	"meudinheiro/internal/cache"
	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
	"meudinheiro/internal/notify"
	"meudinheiro/internal/ownership"
	"meudinheiro/internal/store"
)

var (
	// ErrInvalidInput wraps every validation failure of a mutation.
	ErrInvalidInput = errors.New("invalid input")

	ErrViewNotSelectable = errors.New("view mode not selectable for this profile")
	ErrOwnerNotAllowed   = errors.New("owner not allowed for this profile")
	ErrCardNotFound      = errors.New("credit card payment references an unknown card")
	ErrUnknownCategory   = errors.New("unknown category")
)

// Fixed notification texts shown after successful mutations.
const (
	MsgTransactionAdded   = "Lançamento adicionado com sucesso!"
	MsgTransactionUpdated = "Lançamento atualizado!"
	MsgTransactionRemoved = "Lançamento removido."
	MsgGoalAdded          = "Nova meta definida!"
	MsgCardAdded          = "Cartão de crédito adicionado!"
)

// AccountCreatedMessage is the notification text for a new account.
func AccountCreatedMessage(name string) string {
	return fmt.Sprintf("Conta %s criada!", name)
}

// SessionConfig wires a Session. Store and Queue are required.
type SessionConfig struct {
	Store   store.Store
	Queue   *notify.Queue
	Monitor *DueMonitor
	// Dashboards memoizes snapshots by view and store revision.
	Dashboards cache.Cache[aggregate.Dashboard]
	Logger     *log.Logger
	Now        func() time.Time
	// CashFlowSeed is the opening balance of the cash-flow series.
	CashFlowSeed core.Money
}

// Session is the single application state: profile, selected view mode,
// date range and the stores behind them. Mutations are serialized.
type Session struct {
	store      store.Store
	queue      *notify.Queue
	monitor    *DueMonitor
	dashboards cache.Cache[aggregate.Dashboard]
	logger     *log.Logger
	audit      *log.StructuredLogger
	now        func() time.Time
	seed       core.Money

	mu      sync.RWMutex
	profile core.UserProfile
	view    core.ViewMode
	window  aggregate.DateRange
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig())
	}
	logger := cfg.Logger.WithComponent(log.ComponentSession)
	s := &Session{
		store:      cfg.Store,
		queue:      cfg.Queue,
		monitor:    cfg.Monitor,
		dashboards: cfg.Dashboards,
		logger:     logger,
		audit:      log.NewStructuredLogger(logger),
		now:        cfg.Now,
		seed:       cfg.CashFlowSeed,
	}
	s.resetStateLocked()
	return s
}

func (s *Session) resetStateLocked() {
	s.profile = core.UserProfile{Mode: core.Single}
	s.view = core.Joint
	now := s.now()
	s.window = aggregate.MonthRange(now.Year(), int(now.Month()))
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// Profile

func (s *Session) Profile() core.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetupComplete reports whether onboarding finished.
func (s *Session) SetupComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.SetupComplete
}

// CompleteOnboarding stores the first profile and marks setup complete.
func (s *Session) CompleteOnboarding(ctx context.Context, p core.UserProfile) (core.UserProfile, error) {
	if err := p.Validate(); err != nil {
		return core.UserProfile{}, invalid(err)
	}
	if p.Mode == core.Single {
		p.User2Name = ""
	}
	p.SetupComplete = true

	s.mu.Lock()
	s.profile = p
	s.fixViewLocked()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Onboarding completed", "mode", p.Mode)
	s.CheckDue(ctx)
	return p, nil
}

// UpdateProfile replaces names and mode, keeping the setup flag.
func (s *Session) UpdateProfile(ctx context.Context, p core.UserProfile) (core.UserProfile, error) {
	if err := p.Validate(); err != nil {
		return core.UserProfile{}, invalid(err)
	}
	if p.Mode == core.Single {
		p.User2Name = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.SetupComplete = s.profile.SetupComplete
	s.profile = p
	s.fixViewLocked()
	s.logger.InfoContext(ctx, "Profile updated", "mode", p.Mode, log.FieldViewMode, s.view)
	return p, nil
}

// fixViewLocked falls back to JOINT when the current view no longer exists.
func (s *Session) fixViewLocked() {
	if !ownership.Selectable(s.profile, s.view) {
		s.view = core.Joint
	}
}

// View mode and date range

func (s *Session) ViewMode() core.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Session) SetViewMode(v core.ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ownership.Selectable(s.profile, v) {
		return fmt.Errorf("%w: %s", ErrViewNotSelectable, v)
	}
	s.view = v
	return nil
}

// Views lists the view modes selectable under the current profile.
func (s *Session) Views() []core.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ownership.Views(s.profile)
}

func (s *Session) DateRange() aggregate.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

func (s *Session) SetDateRange(r aggregate.DateRange) error {
	if err := r.Validate(); err != nil {
		return invalid(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = r
	return nil
}

// Mutations

func (s *Session) validateTransactionLocked(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return invalid(err)
	}
	if _, ok := core.LookupCategory(tx.Category); !ok {
		return invalid(fmt.Errorf("%w: %s", ErrUnknownCategory, tx.Category))
	}
	if !s.profile.AllowsOwner(tx.Owner) {
		return invalid(fmt.Errorf("%w: %s", ErrOwnerNotAllowed, tx.Owner))
	}
	if tx.PaymentMethod == core.PayCreditCard {
		_, err := s.store.Cards().Get(ctx, tx.Account)
		if errors.Is(err, store.ErrNotFound) {
			return invalid(fmt.Errorf("%w: %s", ErrCardNotFound, tx.Account))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) checkOwnerLocked(o core.Owner) error {
	if !s.profile.AllowsOwner(o) {
		return invalid(fmt.Errorf("%w: %s", ErrOwnerNotAllowed, o))
	}
	return nil
}

// AddTransaction validates and stores a new transaction. The id of tx is
// ignored and replaced by a fresh one.
func (s *Session) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	if err := s.validateTransactionLocked(ctx, tx); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}
	tx.ID = ""
	created, err := s.store.Transactions().Create(ctx, tx)
	s.mu.Unlock()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.audit.LogMutation(ctx, log.OpCreate, "transaction", created.ID, string(created.Owner), created.Amount.Cents)
	s.queue.Enqueue(ctx, MsgTransactionAdded, core.Success)
	s.CheckDue(ctx)
	return created, nil
}

// UpdateTransaction replaces the transaction with the same id.
func (s *Session) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	if err := s.validateTransactionLocked(ctx, tx); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}
	updated, err := s.store.Transactions().Update(ctx, tx)
	s.mu.Unlock()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.audit.LogMutation(ctx, log.OpUpdate, "transaction", updated.ID, string(updated.Owner), updated.Amount.Cents)
	s.queue.Enqueue(ctx, MsgTransactionUpdated, core.Success)
	s.CheckDue(ctx)
	return updated, nil
}

func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.store.Transactions().Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.audit.LogMutation(ctx, log.OpDelete, "transaction", id, "", 0)
	s.queue.Enqueue(ctx, MsgTransactionRemoved, core.Info)
	s.CheckDue(ctx)
	return nil
}

func (s *Session) AddAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, invalid(err)
	}

	s.mu.Lock()
	if err := s.checkOwnerLocked(a.Owner); err != nil {
		s.mu.Unlock()
		return core.Account{}, err
	}
	a.ID = ""
	created, err := s.store.Accounts().Create(ctx, a)
	s.mu.Unlock()
	if err != nil {
		return core.Account{}, fmt.Errorf("add account: %w", err)
	}

	s.audit.LogMutation(ctx, log.OpCreate, "account", created.ID, string(created.Owner), created.BalanceConfirmed.Cents)
	s.queue.Enqueue(ctx, AccountCreatedMessage(created.Name), core.Success)
	return created, nil
}

func (s *Session) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, invalid(err)
	}

	s.mu.Lock()
	if err := s.checkOwnerLocked(g.Owner); err != nil {
		s.mu.Unlock()
		return core.Goal{}, err
	}
	g.ID = ""
	created, err := s.store.Goals().Create(ctx, g)
	s.mu.Unlock()
	if err != nil {
		return core.Goal{}, fmt.Errorf("add goal: %w", err)
	}

	s.audit.LogMutation(ctx, log.OpCreate, "goal", created.ID, string(created.Owner), created.TargetAmount.Cents)
	s.queue.Enqueue(ctx, MsgGoalAdded, core.Success)
	return created, nil
}

func (s *Session) AddCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, invalid(err)
	}

	s.mu.Lock()
	if err := s.checkOwnerLocked(c.Owner); err != nil {
		s.mu.Unlock()
		return core.CreditCard{}, err
	}
	c.ID = ""
	created, err := s.store.Cards().Create(ctx, c)
	s.mu.Unlock()
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("add card: %w", err)
	}

	s.audit.LogMutation(ctx, log.OpCreate, "card", created.ID, string(created.Owner), created.Limit.Cents)
	s.queue.Enqueue(ctx, MsgCardAdded, core.Success)
	return created, nil
}

// Reset restarts the session: every collection emptied, profile back to an
// incomplete SINGLE profile, JOINT view, no notifications.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.resetStateLocked()
	s.queue.Reset()
	if s.dashboards != nil {
		s.dashboards.Purge()
	}
	if s.monitor != nil {
		s.monitor.Forget()
	}
	s.logger.InfoContext(ctx, "Session reset", log.FieldOperation, log.OpReset)
	return nil
}

// CheckDue runs the due-date monitor once when setup is complete.
func (s *Session) CheckDue(ctx context.Context) {
	if s.monitor == nil || !s.SetupComplete() {
		return
	}
	if _, err := s.monitor.Check(ctx, s.now()); err != nil {
		s.logger.ErrorContext(ctx, "Due check failed", log.FieldError, err)
	}
}

// RunDueMonitor drives the periodic due check until ctx is done.
func (s *Session) RunDueMonitor(ctx context.Context, interval time.Duration) error {
	if s.monitor == nil {
		<-ctx.Done()
		return nil
	}
	return s.monitor.Run(ctx, interval, s.SetupComplete, s.now)
}

// Notifications

func (s *Session) AddNotification(ctx context.Context, message string, kind core.NotificationKind) core.Notification {
	return s.queue.Enqueue(ctx, message, kind)
}

// RemoveNotification reports whether the id was live.
func (s *Session) RemoveNotification(id string) bool {
	return s.queue.Dismiss(id)
}

func (s *Session) Notifications() []core.Notification {
	return s.queue.List()
}
