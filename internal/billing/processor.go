package billing

import (
	"context"
	"errors"
)

// ErrBankAccountExists is returned when the processor already holds this
// bank account for the customer. Callers treat it as success.
var ErrBankAccountExists = errors.New("bank account already exists")

type BankAccountInput struct {
	RoutingNumber string
	AccountNumber string
	HolderName    string
}

type BankAccount struct {
	ID         string
	Last4      string
	HolderName string
}

type ChargeResult struct {
	IntentID  string
	Succeeded bool // false means the intent is still processing
}

// Processor is the payment-processor surface the wizard needs. The real
// implementation talks to Stripe; tests plug in a fake.
type Processor interface {
	EnsureCustomer(ctx context.Context, customerID, email, name string) (string, error)
	AttachBankAccount(ctx context.Context, customerID string, in BankAccountInput) (*BankAccount, error)
	ChargeACH(ctx context.Context, customerID string, amountCents int64, description string) (*ChargeResult, error)
	AttachCard(ctx context.Context, customerID, cardToken string) (string, error)
}
