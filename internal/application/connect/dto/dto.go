package dto

// InitiateLinkRequest starts a channel linking flow for one provider.
type InitiateLinkRequest struct {
	Source string `json:"source"`
	// UserID is the authenticated operator starting the flow, when known.
	UserID *uint `json:"-"`
}

// InitiateLinkResult is where the browser goes next: the provider consent
// dialog when the flow started, otherwise the integration log entry holding
// the rejection detail.
type InitiateLinkResult struct {
	RedirectURL string
	// State is the OAuth state parked for the callback, empty on failure.
	State string
	// LogSID identifies the error log entry on failure, empty on success.
	LogSID string
}

// CallbackRequest is what the provider redirect delivered to the callback
// endpoint. Error fields are set when the user denied the dialog or the
// provider aborted the flow.
type CallbackRequest struct {
	Source           string
	State            string
	Code             string
	ErrorCode        string
	ErrorDescription string
}

// CallbackResult is where the browser goes next. The callback never surfaces
// raw errors; failures land in the integration log and the redirect points at
// the log entry.
type CallbackResult struct {
	RedirectURL string
	// LinkedPages lists the page ids persisted during a successful run.
	LinkedPages []string
	// LogSID identifies the error log entry on failure, empty on success.
	LogSID string
}
