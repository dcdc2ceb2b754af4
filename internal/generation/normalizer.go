package generation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/certprep-api/pkg/ai"
)

// Normalizer turns raw provider output into a Result.
//
// Text output is decoded as JSON first; structured output is used as-is. The candidate must be an array.
// Elements are passed through untouched unless strict mode is on, in which case every element has to
// match the question schema and a correctIndex that points inside options.
type Normalizer struct {
	strict bool
}

// NewNormalizer builds a normalizer.
func NewNormalizer(strict bool) *Normalizer {
	return &Normalizer{strict: strict}
}

// Normalize classifies the output. It never returns a provider failure.
func (n *Normalizer) Normalize(raw ai.RawOutput) Result {
	var candidate json.RawMessage

	switch raw.Kind {
	case ai.OutputStructured:
		candidate = raw.Structured
	case ai.OutputText:
		if err := json.Unmarshal([]byte(raw.Text), &candidate); err != nil {
			return Fail(DecodeFailure(err))
		}
	default:
		return Fail(ShapeFailure(fmt.Errorf("unsupported output kind %s", raw.Kind)))
	}

	if kind := JSONKind(candidate); kind != "array" {
		return Fail(ShapeFailure(fmt.Errorf("decoded %s, want array", kind)))
	}

	var questions Questions
	if err := json.Unmarshal(candidate, &questions); err != nil {
		return Fail(ShapeFailure(err))
	}

	if n.strict {
		for i, question := range questions {
			if err := validateQuestion(question); err != nil {
				return Fail(ShapeFailure(fmt.Errorf("question %d: %w", i, err)))
			}
		}
	}

	return Success(questions)
}

func validateQuestion(raw json.RawMessage) error {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}
	if err := questionSchema.Validate(value); err != nil {
		return err
	}

	var question QuizQuestion
	if err := json.Unmarshal(raw, &question); err != nil {
		return err
	}
	if question.CorrectIndex >= len(question.Options) {
		return fmt.Errorf("correctIndex %d out of range for %d options", question.CorrectIndex, len(question.Options))
	}
	return nil
}

// JSONKind names the JSON type of an encoded value: array, object, string, number, boolean, null or invalid.
func JSONKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "invalid"
	}

	switch trimmed[0] {
	case '[':
		return "array"
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		if trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9') {
			return "number"
		}
		return "invalid"
	}
}
