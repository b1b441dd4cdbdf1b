package dto

import "github.com/lindenpm/linden/internal/api/validation"

type CreateApplicationRequest struct {
	PropertyID string `json:"property_id"`
}

func (r CreateApplicationRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidUUID(r.PropertyID) {
		errors["property_id"] = "Property ID must be a UUID"
	}
	return errors
}

type AddCheckingAccountRequest struct {
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	HolderName    string `json:"holder_name"`
}

func (r AddCheckingAccountRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !validation.IsValidRoutingNumber(r.RoutingNumber) {
		errors["routing_number"] = "Routing number must be 9 digits"
	}
	if !validation.IsValidAccountNumber(r.AccountNumber) {
		errors["account_number"] = "Account number must be 4 to 17 digits"
	}
	if r.HolderName == "" {
		errors["holder_name"] = "Holder name is required"
	}

	return errors
}

type AddCreditCardRequest struct {
	// Token comes from the client-side tokenizer; raw card numbers are
	// never accepted.
	Token string `json:"token"`
}

func (r AddCreditCardRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Token == "" {
		errors["token"] = "Card token is required"
	}
	return errors
}

// SetupStepResponse reports where the wizard stands after an operation.
type SetupStepResponse struct {
	ApplicationID string      `json:"application_id"`
	Step          int         `json:"step"`
	StepName      string      `json:"step_name"`
	Payment       interface{} `json:"payment,omitempty"`
}
