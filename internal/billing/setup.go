package billing

import "github.com/lindenpm/linden/internal/database/models"

// SetupStep is one step of the payment-setup wizard.
type SetupStep int

const (
	StepBankAccount SetupStep = iota + 1
	StepDeposit
	StepCard
	StepComplete
)

func (s SetupStep) String() string {
	switch s {
	case StepBankAccount:
		return "bank-account"
	case StepDeposit:
		return "security-deposit"
	case StepCard:
		return "credit-card"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// transitions is the only legal forward edge per step. The wizard is linear;
// anything else is out of order.
var transitions = map[SetupStep]SetupStep{
	StepBankAccount: StepDeposit,
	StepDeposit:     StepCard,
	StepCard:        StepComplete,
}

// Next returns the step after s, or false from the terminal step.
func Next(s SetupStep) (SetupStep, bool) {
	next, ok := transitions[s]
	return next, ok
}

// ResumeStep derives the current step from the persisted flags. Precedence:
// all three set means complete; checking+deposit resumes at card capture;
// checking alone resumes at the deposit charge; nothing set starts over.
// Flag combinations unreachable through the wizard (card without deposit)
// fall through to the earliest incomplete step.
func ResumeStep(app *models.RentalApplication) SetupStep {
	switch {
	case app.HasCheckingAccount && app.SecurityDepositPaid && app.HasCreditCard:
		return StepComplete
	case app.HasCheckingAccount && app.SecurityDepositPaid:
		return StepCard
	case app.HasCheckingAccount:
		return StepDeposit
	default:
		return StepBankAccount
	}
}
