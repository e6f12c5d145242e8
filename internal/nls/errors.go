package nls

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	ConfigurationError ErrorKind = iota + 1
	UpstreamError
)

type Operation string

const (
	OpSuggestion  Operation = "suggestion"
	OpLessonPlan  Operation = "lesson_plan"
	OpIntegration Operation = "integration"
	OpAssessment  Operation = "assessment"
)

const missingApiKeyMessage = "Chưa có API Key. Vui lòng cấu hình GEMINI_API_KEY."

var upstreamMessages = map[Operation]string{
	OpSuggestion:  "Lỗi kết nối AI. Vui lòng thử lại sau.",
	OpLessonPlan:  "Lỗi tạo giáo án.",
	OpIntegration: "Lỗi tích hợp NLS.",
	OpAssessment:  "Lỗi khi tạo công cụ đánh giá.",
}

// Error carries a localized message safe to show to teachers.
// The backend cause stays reachable through Unwrap.
type Error struct {
	Kind    ErrorKind
	Op      Operation
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) KindString() string {
	switch e.Kind {
	case ConfigurationError:
		return "ConfigurationError"
	case UpstreamError:
		return "UpstreamError"
	default:
		return "UnknownError"
	}
}

// Detail includes the cause, for logs only.
func (e *Error) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s[%s] (%s): %v", e.KindString(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s[%s]: %s", e.KindString(), e.Op, e.Message)
}

func newConfigurationError(op Operation) *Error {
	return &Error{Kind: ConfigurationError, Op: op, Message: missingApiKeyMessage}
}

func newUpstreamError(op Operation, err error) *Error {
	return &Error{Kind: UpstreamError, Op: op, Message: upstreamMessages[op], Err: err}
}

func IsConfigurationError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == ConfigurationError
}

func IsUpstreamError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == UpstreamError
}
