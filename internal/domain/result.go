package domain

// ErrorKind classifies why a handler action failed.
type ErrorKind string

const (
	ErrorConfigMissing ErrorKind = "config_missing"
	ErrorProvider      ErrorKind = "provider_error"
	ErrorParse         ErrorKind = "parse_failure"
	ErrorAmbiguous     ErrorKind = "ambiguous"
	ErrorNotFound      ErrorKind = "not_found"
	ErrorInternal      ErrorKind = "internal"
)

// Failure describes a failed action. Candidates is only set for ambiguous lookups.
type Failure struct {
	Kind       ErrorKind `json:"kind"`
	Detail     string    `json:"detail"`
	Candidates []string  `json:"candidates,omitempty"`
}

// Result is the envelope every handler action returns. Build it with OK, Info,
// Fail or Ambiguous so a failed result never carries a payload.
type Result struct {
	Success bool        `json:"success"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *Failure    `json:"error,omitempty"`
}

// OK wraps a payload and an optional confirmation message.
func OK(payload interface{}, message string) Result {
	return Result{Success: true, Payload: payload, Message: message}
}

// Info is a successful no-op carrying only a message.
func Info(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(kind ErrorKind, detail string) Result {
	return Result{Error: &Failure{Kind: kind, Detail: detail}}
}

func Ambiguous(detail string, candidates []string) Result {
	return Result{Error: &Failure{Kind: ErrorAmbiguous, Detail: detail, Candidates: candidates}}
}

// IsInfo reports whether the result is a message-only success.
func (r Result) IsInfo() bool {
	return r.Success && r.Payload == nil && r.Message != ""
}

// Kind returns the failure kind, or an empty kind for successful results.
func (r Result) Kind() ErrorKind {
	if r.Error == nil {
		return ""
	}
	return r.Error.Kind
}

// Detail returns the failure detail, or an empty string for successful results.
func (r Result) Detail() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Detail
}
