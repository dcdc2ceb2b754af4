package generation

import (
	"errors"
	"fmt"
)

// Kind classifies why the pipeline did not produce questions.
type Kind string

const (
	KindCaller   Kind = "caller"
	KindProvider Kind = "provider"
	KindDecode   Kind = "decode"
	KindShape    Kind = "shape"
)

// Sentinels matched by errors.Is against a *Failure of the same kind.
var (
	ErrCaller   = errors.New("invalid generation request")
	ErrProvider = errors.New("generation provider failed")
	ErrDecode   = errors.New("malformed generation response")
	ErrShape    = errors.New("generation response is not a question array")
)

// Failure is the error half of a Result. Message is what callers may see, Cause is for logs only.
type Failure struct {
	Kind    Kind
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Cause != nil && f.Cause.Error() != f.Message {
		return fmt.Sprintf("%s: %v", f.Message, f.Cause)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Is lets errors.Is(err, ErrDecode) and friends work on failures.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrCaller:
		return f.Kind == KindCaller
	case ErrProvider:
		return f.Kind == KindProvider
	case ErrDecode:
		return f.Kind == KindDecode
	case ErrShape:
		return f.Kind == KindShape
	default:
		return false
	}
}

// CallerFailure reports missing or invalid input.
func CallerFailure(message string) *Failure {
	return &Failure{Kind: KindCaller, Message: message}
}

// ProviderFailure carries the provider's own message so it can be surfaced verbatim.
func ProviderFailure(err error) *Failure {
	message := "AI provider request failed"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &Failure{Kind: KindProvider, Message: message, Cause: err}
}

// DecodeFailure hides the parse error behind a fixed message.
func DecodeFailure(err error) *Failure {
	return &Failure{Kind: KindDecode, Message: MessageDecodeFailed, Cause: err}
}

// ShapeFailure reports a decoded value that is not a usable question array.
func ShapeFailure(cause error) *Failure {
	return &Failure{Kind: KindShape, Message: MessageInvalidShape, Cause: cause}
}

// Fixed user-facing messages.
const (
	MessageDecodeFailed          = "Failed to parse AI response"
	MessageInvalidShape          = "AI did not return a valid question array"
	MessageCertificationRequired = "certification is required"
)
