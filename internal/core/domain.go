package core

import (
	"errors"
	"strings"
)

const (
	Single ProfileMode = "SINGLE"
	Couple ProfileMode = "COUPLE"

	User1 Owner = "USER1"
	User2 Owner = "USER2"
	Joint Owner = "JOINT"

	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"

	Pending    Status = "PENDING"
	Confirmed  Status = "CONFIRMED"
	Reconciled Status = "RECONCILED"

	PayCreditCard PaymentMethod = "CREDIT_CARD"
	PayDebitCard  PaymentMethod = "DEBIT_CARD"
	PayPix        PaymentMethod = "PIX"
	PayCash       PaymentMethod = "CASH"
	PayTransfer   PaymentMethod = "TRANSFER"
	PayOther      PaymentMethod = "OTHER"

	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	Investment AccountType = "INVESTMENT"

	SavingGoal    GoalType = "SAVING"
	SpendingLimit GoalType = "SPENDING_LIMIT"
)

type (
	ProfileMode     string
	Owner           string
	TransactionType string
	Status          string
	PaymentMethod   string
	AccountType     string
	GoalType        string

	// ViewMode selects which owners are visible. It shares the Owner domain.
	ViewMode = Owner

	UserProfile struct {
		Mode          ProfileMode `json:"mode"`
		User1Name     string      `json:"user1Name"`
		User2Name     string      `json:"user2Name"`
		SetupComplete bool        `json:"setupComplete"`
	}

	Transaction struct {
		ID            string          `json:"id"`
		Date          Date            `json:"date"`
		Description   string          `json:"description"`
		Amount        Money           `json:"amount"` // magnitude; sign comes from Type
		Type          TransactionType `json:"type"`
		Category      string          `json:"category"`
		Account       string          `json:"account"` // account or card id, empty when unlinked
		PaymentMethod PaymentMethod   `json:"paymentMethod"`
		Owner         Owner           `json:"owner"`
		Status        Status          `json:"status"`
		CostCenter    string          `json:"costCenter,omitempty"`
	}

	Account struct {
		ID               string      `json:"id"`
		Name             string      `json:"name"`
		Bank             string      `json:"bank"`
		Owner            Owner       `json:"owner"`
		BalanceConfirmed Money       `json:"balanceConfirmed"`
		BalanceProjected Money       `json:"balanceProjected"`
		Type             AccountType `json:"type"`
	}

	CreditCard struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Bank       string `json:"bank"`
		Owner      Owner  `json:"owner"`
		Limit      Money  `json:"limit"`
		Used       Money  `json:"used"` // may exceed Limit
		ClosingDay int    `json:"closingDay"`
		DueDay     int    `json:"dueDay"`
		Brand      string `json:"brand"`
	}

	Goal struct {
		ID            string   `json:"id"`
		Title         string   `json:"title"`
		TargetAmount  Money    `json:"targetAmount"`
		CurrentAmount Money    `json:"currentAmount"` // may exceed TargetAmount
		Deadline      Date     `json:"deadline"`
		Owner         Owner    `json:"owner"`
		Type          GoalType `json:"type"`
	}
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidOwner      = errors.New("invalid owner")
	ErrInvalidType       = errors.New("invalid type")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrCardRequired      = errors.New("credit card payment requires a card")
	ErrInvalidLimit      = errors.New("card limit must be greater than zero")
	ErrInvalidTarget     = errors.New("goal target must be greater than zero")
	ErrInvalidMode       = errors.New("invalid profile mode")
	ErrMissingUser1Name  = errors.New("first user name is required")
	ErrMissingUser2Name  = errors.New("second user name is required in couple mode")
	ErrDescriptionLength = errors.New("description too long (max 200 characters)")
)

func (m ProfileMode) IsValid() bool { return m == Single || m == Couple }

func (o Owner) IsValid() bool {
	switch o {
	case User1, User2, Joint:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (s Status) IsValid() bool {
	switch s {
	case Pending, Confirmed, Reconciled:
		return true
	}
	return false
}

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PayCreditCard, PayDebitCard, PayPix, PayCash, PayTransfer, PayOther:
		return true
	}
	return false
}

func (a AccountType) IsValid() bool {
	switch a {
	case Checking, Savings, Investment:
		return true
	}
	return false
}

func (g GoalType) IsValid() bool { return g == SavingGoal || g == SpendingLimit }

// Validate checks the onboarding rules: a first user name is always required,
// the second one only in couple mode.
func (p UserProfile) Validate() error {
	if !p.Mode.IsValid() {
		return ErrInvalidMode
	}
	if strings.TrimSpace(p.User1Name) == "" {
		return ErrMissingUser1Name
	}
	if p.Mode == Couple && strings.TrimSpace(p.User2Name) == "" {
		return ErrMissingUser2Name
	}
	return nil
}

// AllowsOwner reports whether records may be tagged with o under this profile.
// USER2 only exists in couple mode.
func (p UserProfile) AllowsOwner(o Owner) bool {
	if !o.IsValid() {
		return false
	}
	return o != User2 || p.Mode == Couple
}

// DisplayName returns the label shown for an owner tag.
func (p UserProfile) DisplayName(o Owner) string {
	switch o {
	case User1:
		return p.User1Name
	case User2:
		return p.User2Name
	case Joint:
		if p.Mode == Couple {
			return "Casal"
		}
		return "Conjunta"
	}
	return string(o)
}

func (t Transaction) OwnerTag() Owner { return t.Owner }
func (a Account) OwnerTag() Owner     { return a.Owner }
func (c CreditCard) OwnerTag() Owner  { return c.Owner }
func (g Goal) OwnerTag() Owner        { return g.Owner }

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLength
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.PaymentMethod.IsValid() {
		return ErrInvalidPayment
	}
	if t.PaymentMethod == PayCreditCard && strings.TrimSpace(t.Account) == "" {
		return ErrCardRequired
	}
	if !t.Owner.IsValid() {
		return ErrInvalidOwner
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Owner.IsValid() {
		return ErrInvalidOwner
	}
	if !a.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// Validate checks card fields. Closing and due days are range-checked only;
// day 31 is accepted for every month.
func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Owner.IsValid() {
		return ErrInvalidOwner
	}
	if c.Limit.Cents <= 0 {
		return ErrInvalidLimit
	}
	if c.Used.IsNegative() {
		return ErrInvalidAmount
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 || c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDay
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return err
	}
	if !g.Owner.IsValid() {
		return ErrInvalidOwner
	}
	if !g.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}
