package channel

import (
	"context"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
)

// TokenSet is the outcome of an authorization-code exchange.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the provider's validity hint in seconds; zero when the
	// provider gave none.
	ExpiresIn int64
}

// LinkedAccount is one page/account discovered during a link. Facebook can
// return several per user; Instagram and Zalo return exactly one.
type LinkedAccount struct {
	PageID      string
	Name        string
	AccessToken string
}

// Connector is the per-provider strategy behind the linking flow: building
// the authorization URL, exchanging the code, discovering the linked
// accounts and subscribing their webhooks. One implementation exists per
// Source.
type Connector interface {
	Source() Source

	// RequiresPKCE reports whether the provider's code exchange needs a
	// PKCE verifier (Zalo).
	RequiresPKCE() bool

	// BuildAuthURL returns the provider authorization URL. codeChallenge
	// is empty for non-PKCE providers.
	BuildAuthURL(state, codeChallenge string) string

	// Exchange turns an authorization code into tokens, including the
	// short-to-long-lived upgrade where the provider supports it.
	// codeVerifier is empty for non-PKCE providers.
	Exchange(ctx context.Context, code, codeVerifier string) (*TokenSet, error)

	// FetchAccounts lists the pages/accounts reachable with the exchanged
	// tokens.
	FetchAccounts(ctx context.Context, tokens *TokenSet) ([]LinkedAccount, error)

	// Subscribe registers the message webhook for one discovered account.
	Subscribe(ctx context.Context, account LinkedAccount) error
}

// ConnectorFactory builds a Connector for a source from the tenant's
// integration settings, validating that the required credentials are
// configured.
type ConnectorFactory interface {
	ForSource(settings *integration.Setting, source Source) (Connector, error)
}
