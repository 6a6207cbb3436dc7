package errors

// ErrorCode identifies an application error category in API responses
// and logs. Codes are stable; append new ones, never renumber.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL            ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT    ErrorCode = 1001
	ErrorCode_NOT_FOUND           ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS      ErrorCode = 1003
	ErrorCode_PRECONDITION_FAILED ErrorCode = 1004

	// Webhooks
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 2000
	ErrorCode_INVALID_SIGNATURE ErrorCode = 2001

	// Meetings / pipeline
	ErrorCode_MEETING_NOT_FOUND     ErrorCode = 3000
	ErrorCode_MEETING_INVALID_STATE ErrorCode = 3001
	ErrorCode_TRANSCRIPTION_FAILED  ErrorCode = 3002
	ErrorCode_SUMMARIZATION_FAILED  ErrorCode = 3003
	ErrorCode_FOLLOWUP_FAILED       ErrorCode = 3004
	ErrorCode_PROCESSING_FAILED     ErrorCode = 3005

	// Integrations
	ErrorCode_PROVIDER_FAILED ErrorCode = 4000
	ErrorCode_STORAGE_FAILED  ErrorCode = 4001
	ErrorCode_QUEUE_FAILED    ErrorCode = 4002
	ErrorCode_EMAIL_FAILED    ErrorCode = 4003

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 5000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:               "OK",
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:             "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:        "ALREADY_EXISTS",
	ErrorCode_PRECONDITION_FAILED:   "PRECONDITION_FAILED",
	ErrorCode_INVALID_PAYLOAD:       "INVALID_PAYLOAD",
	ErrorCode_INVALID_SIGNATURE:     "INVALID_SIGNATURE",
	ErrorCode_MEETING_NOT_FOUND:     "MEETING_NOT_FOUND",
	ErrorCode_MEETING_INVALID_STATE: "MEETING_INVALID_STATE",
	ErrorCode_TRANSCRIPTION_FAILED:  "TRANSCRIPTION_FAILED",
	ErrorCode_SUMMARIZATION_FAILED:  "SUMMARIZATION_FAILED",
	ErrorCode_FOLLOWUP_FAILED:       "FOLLOWUP_FAILED",
	ErrorCode_PROCESSING_FAILED:     "PROCESSING_FAILED",
	ErrorCode_PROVIDER_FAILED:       "PROVIDER_FAILED",
	ErrorCode_STORAGE_FAILED:        "STORAGE_FAILED",
	ErrorCode_QUEUE_FAILED:          "QUEUE_FAILED",
	ErrorCode_EMAIL_FAILED:          "EMAIL_FAILED",
	ErrorCode_DB_QUERY_FAILED:       "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
