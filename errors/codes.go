package errors

// ErrorCode is the machine readable code carried by every API error body
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004
	ErrorCode_CONFLICT         ErrorCode = 1005

	// Question bank
	ErrorCode_QUESTIONS_UNAVAILABLE ErrorCode = 2000
	ErrorCode_NO_INTRODUCTION       ErrorCode = 2001

	// Sessions
	ErrorCode_SESSION_NOT_FOUND     ErrorCode = 3000
	ErrorCode_SESSION_INVALID_STATE ErrorCode = 3001
	ErrorCode_INVALID_SETTINGS      ErrorCode = 3002

	// Transcripts and export
	ErrorCode_TRANSCRIPT_NOT_FOUND ErrorCode = 4000
	ErrorCode_TRANSCRIPT_EMPTY     ErrorCode = 4001
	ErrorCode_EXPORT_FAILED        ErrorCode = 4002
	ErrorCode_EXPORT_UNAVAILABLE   ErrorCode = 4003

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001
	ErrorCode_DB_QUERY_FAILED            ErrorCode = 5002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_CONFLICT:                   "CONFLICT",
	ErrorCode_QUESTIONS_UNAVAILABLE:      "QUESTIONS_UNAVAILABLE",
	ErrorCode_NO_INTRODUCTION:            "NO_INTRODUCTION",
	ErrorCode_SESSION_NOT_FOUND:          "SESSION_NOT_FOUND",
	ErrorCode_SESSION_INVALID_STATE:      "SESSION_INVALID_STATE",
	ErrorCode_INVALID_SETTINGS:           "INVALID_SETTINGS",
	ErrorCode_TRANSCRIPT_NOT_FOUND:       "TRANSCRIPT_NOT_FOUND",
	ErrorCode_TRANSCRIPT_EMPTY:           "TRANSCRIPT_EMPTY",
	ErrorCode_EXPORT_FAILED:              "EXPORT_FAILED",
	ErrorCode_EXPORT_UNAVAILABLE:         "EXPORT_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
