package usecases

import "context"

// LinkSession is the per-flow context saved between the auth request and its
// callback, keyed by the OAuth state parameter.
type LinkSession struct {
	Source       string
	CodeVerifier string
	UserID       *uint
}

// SessionStore persists pending link sessions. Take must be one-shot: a state
// that was consumed once is gone.
type SessionStore interface {
	Save(ctx context.Context, state string, session LinkSession) error
	Take(ctx context.Context, state string) (*LinkSession, error)
}

// PKCEGenerator returns a code verifier and its S256 challenge.
type PKCEGenerator func() (codeVerifier, codeChallenge string, err error)

// FailureNotifier alerts the operator mailbox about a failed link attempt.
type FailureNotifier interface {
	SendLinkFailureAlert(source, message, logURL string) error
}
