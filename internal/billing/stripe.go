package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProcessor implements Processor against the Stripe API. One client is
// created at startup and shared by all handlers.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api}
}

// EnsureCustomer returns the existing customer id or creates a new customer.
func (p *StripeProcessor) EnsureCustomer(ctx context.Context, customerID, email, name string) (string, error) {
	if customerID != "" {
		return customerID, nil
	}

	cust, err := p.api.Customers.New(&stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
		Name:   stripe.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("creating customer: %w", err)
	}
	return cust.ID, nil
}

func (p *StripeProcessor) AttachBankAccount(ctx context.Context, customerID string, in BankAccountInput) (*BankAccount, error) {
	ba, err := p.api.BankAccounts.New(&stripe.BankAccountParams{
		Params:            stripe.Params{Context: ctx},
		Customer:          stripe.String(customerID),
		Country:           stripe.String("US"),
		Currency:          stripe.String(string(stripe.CurrencyUSD)),
		AccountNumber:     stripe.String(in.AccountNumber),
		RoutingNumber:     stripe.String(in.RoutingNumber),
		AccountHolderName: stripe.String(in.HolderName),
		AccountHolderType: stripe.String("individual"),
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeBankAccountExists {
			return nil, ErrBankAccountExists
		}
		return nil, fmt.Errorf("attaching bank account: %w", err)
	}

	return &BankAccount{
		ID:         ba.ID,
		Last4:      ba.Last4,
		HolderName: in.HolderName,
	}, nil
}

func (p *StripeProcessor) ChargeACH(ctx context.Context, customerID string, amountCents int64, description string) (*ChargeResult, error) {
	intent, err := p.api.PaymentIntents.New(&stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		Customer:           stripe.String(customerID),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String(description),
		PaymentMethodTypes: stripe.StringSlice([]string{"us_bank_account"}),
	})
	if err != nil {
		return nil, fmt.Errorf("charging deposit: %w", err)
	}

	return &ChargeResult{
		IntentID:  intent.ID,
		Succeeded: intent.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

// AttachCard accepts only a client-side token; raw card data never reaches
// this server.
func (p *StripeProcessor) AttachCard(ctx context.Context, customerID, cardToken string) (string, error) {
	card, err := p.api.Cards.New(&stripe.CardParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Token:    stripe.String(cardToken),
	})
	if err != nil {
		return "", fmt.Errorf("attaching card: %w", err)
	}
	return card.ID, nil
}

var _ Processor = (*StripeProcessor)(nil)
