package generation

import "net/http"

// QuestionsResponse is the success body.
type QuestionsResponse struct {
	Questions Questions `json:"questions"`
}

// ErrorResponse is the failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Report maps a Result to an HTTP status and body.
//
// Provider, decode and shape failures all answer 500; only the message differs. Caller failures answer 400.
func Report(result Result) (int, interface{}) {
	failure := result.Failure()
	if failure == nil {
		return http.StatusOK, QuestionsResponse{Questions: result.Questions()}
	}

	switch failure.Kind {
	case KindCaller:
		return http.StatusBadRequest, ErrorResponse{Error: failure.Message}
	case KindProvider:
		return http.StatusInternalServerError, ErrorResponse{Error: failure.Message}
	case KindDecode:
		return http.StatusInternalServerError, ErrorResponse{Error: MessageDecodeFailed}
	case KindShape:
		return http.StatusInternalServerError, ErrorResponse{Error: MessageInvalidShape}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}
