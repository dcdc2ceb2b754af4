package dto

import "github.com/noah-isme/certprep-api/internal/generation"

// GenerateQuestionsRequest is the body accepted by the question generation endpoint.
type GenerateQuestionsRequest struct {
	Certification string   `json:"certification" validate:"max=200"`
	Descriptions  []string `json:"descriptions" validate:"max=50,dive,max=1000"`
	AIPrompt      string   `json:"aiPrompt" validate:"max=4000"`
}

// ToGenerationRequest converts the payload into the pipeline's request type.
func (r GenerateQuestionsRequest) ToGenerationRequest() generation.Request {
	return generation.Request{
		Certification: r.Certification,
		Descriptions:  r.Descriptions,
		CustomPrompt:  r.AIPrompt,
	}
}
