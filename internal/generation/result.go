package generation

import "encoding/json"

// Request is one call to generate quiz questions.
type Request struct {
	Certification string
	Descriptions  []string
	CustomPrompt  string
}

// QuizQuestion is the question shape the prompt asks the provider for.
type QuizQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Questions holds each generated element exactly as the provider produced it.
type Questions []json.RawMessage

// Result is exactly one of success-with-questions or failure.
type Result struct {
	questions Questions
	failure   *Failure
}

// Success builds a successful result. A nil slice is normalised to an empty one.
func Success(questions Questions) Result {
	if questions == nil {
		questions = Questions{}
	}
	return Result{questions: questions}
}

// Fail builds a failed result.
func Fail(failure *Failure) Result {
	if failure == nil {
		failure = ProviderFailure(nil)
	}
	return Result{failure: failure}
}

// Succeeded reports whether the result carries questions.
func (r Result) Succeeded() bool {
	return r.failure == nil
}

// Questions returns the generated questions, nil on failure.
func (r Result) Questions() Questions {
	if r.failure != nil {
		return nil
	}
	return r.questions
}

// Failure returns the failure, nil on success.
func (r Result) Failure() *Failure {
	return r.failure
}

// Err exposes the failure as an error value.
func (r Result) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}
