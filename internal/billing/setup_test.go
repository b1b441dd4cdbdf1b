package billing

import (
	"testing"

	"github.com/lindenpm/linden/internal/database/models"
	"github.com/stretchr/testify/assert"
)

func TestResumeStep(t *testing.T) {
	tests := []struct {
		name     string
		checking bool
		deposit  bool
		card     bool
		want     SetupStep
	}{
		{"no flags starts at bank capture", false, false, false, StepBankAccount},
		{"checking only resumes at deposit", true, false, false, StepDeposit},
		{"checking and deposit resume at card", true, true, false, StepCard},
		{"all three flags is complete", true, true, true, StepComplete},
		// Combinations unreachable through the wizard fall back to the
		// earliest incomplete step.
		{"deposit without checking starts over", false, true, false, StepBankAccount},
		{"card without deposit resumes at deposit", true, false, true, StepDeposit},
		{"card alone starts over", false, false, true, StepBankAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &models.RentalApplication{
				HasCheckingAccount:  tt.checking,
				SecurityDepositPaid: tt.deposit,
				HasCreditCard:       tt.card,
			}
			assert.Equal(t, tt.want, ResumeStep(app))
		})
	}
}

func TestNext(t *testing.T) {
	next, ok := Next(StepBankAccount)
	assert.True(t, ok)
	assert.Equal(t, StepDeposit, next)

	next, ok = Next(StepDeposit)
	assert.True(t, ok)
	assert.Equal(t, StepCard, next)

	next, ok = Next(StepCard)
	assert.True(t, ok)
	assert.Equal(t, StepComplete, next)

	_, ok = Next(StepComplete)
	assert.False(t, ok, "complete is terminal")
}

func TestSetupStep_String(t *testing.T) {
	assert.Equal(t, "bank-account", StepBankAccount.String())
	assert.Equal(t, "complete", StepComplete.String())
	assert.Equal(t, "unknown", SetupStep(99).String())
}
