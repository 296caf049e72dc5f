package social

import "fmt"

// APIError is an error payload embedded in a provider response. The raw body
// is kept so the callback flow can echo it into the integration log.
type APIError struct {
	Provider string
	Message  string
	Type     string
	Code     int
	TraceID  string
	RawBody  []byte
}

// Payload returns the raw provider response body for log echoing.
func (e *APIError) Payload() []byte {
	return e.RawBody
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("%s API error: %s (type: %s, code: %d, trace: %s)",
			e.Provider, e.Message, e.Type, e.Code, e.TraceID)
	}
	return fmt.Sprintf("%s API error: %s (code: %d)", e.Provider, e.Message, e.Code)
}
