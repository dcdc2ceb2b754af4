package dto

import "github.com/noah-isme/certprep-api/pkg/paystack"

// BankQuery filters the bank listing.
type BankQuery struct {
	Country string `validate:"omitempty,alpha,max=32"`
}

// BankResponse is a bank exposed to the payout form.
type BankResponse struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Slug     string `json:"slug"`
	Currency string `json:"currency"`
}

// NewBankResponses keeps only active banks.
func NewBankResponses(banks []paystack.Bank) []BankResponse {
	responses := make([]BankResponse, 0, len(banks))
	for _, bank := range banks {
		if !bank.Active {
			continue
		}
		responses = append(responses, BankResponse{
			Name:     bank.Name,
			Code:     bank.Code,
			Slug:     bank.Slug,
			Currency: bank.Currency,
		})
	}
	return responses
}
