package usecases

import (
	"context"

	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/domain/integration"
)

type mockSettingRepository struct {
	GetCurrentFunc func(ctx context.Context) (*integration.Setting, error)
	UpsertFunc     func(ctx context.Context, s *integration.Setting) error
}

func (m *mockSettingRepository) GetCurrent(ctx context.Context) (*integration.Setting, error) {
	if m.GetCurrentFunc != nil {
		return m.GetCurrentFunc(ctx)
	}
	return nil, nil
}

func (m *mockSettingRepository) Upsert(ctx context.Context, s *integration.Setting) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return nil
}

type mockLogRepository struct {
	entries []*integration.Log

	AppendFunc   func(ctx context.Context, l *integration.Log) error
	GetBySIDFunc func(ctx context.Context, sid string) (*integration.Log, error)
	ListFunc     func(ctx context.Context, filter integration.LogListFilter) ([]*integration.Log, int64, error)
}

func (m *mockLogRepository) Append(ctx context.Context, l *integration.Log) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, l)
	}
	m.entries = append(m.entries, l)
	l.ID = uint(len(m.entries))
	return nil
}

func (m *mockLogRepository) GetBySID(ctx context.Context, sid string) (*integration.Log, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	for _, entry := range m.entries {
		if entry.SID == sid {
			return entry, nil
		}
	}
	return nil, nil
}

func (m *mockLogRepository) List(ctx context.Context, filter integration.LogListFilter) ([]*integration.Log, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return m.entries, int64(len(m.entries)), nil
}

type mockChannelRepository struct {
	upserted []*channel.Channel

	GetByPageIDFunc func(ctx context.Context, source channel.Source, pageID string) (*channel.Channel, error)
	GetBySIDFunc    func(ctx context.Context, sid string) (*channel.Channel, error)
	UpsertFunc      func(ctx context.Context, ch *channel.Channel) error
	UpdateFunc      func(ctx context.Context, ch *channel.Channel) error
	ListFunc        func(ctx context.Context, filter channel.ListFilter) ([]*channel.Channel, int64, error)
}

func (m *mockChannelRepository) GetByPageID(ctx context.Context, source channel.Source, pageID string) (*channel.Channel, error) {
	if m.GetByPageIDFunc != nil {
		return m.GetByPageIDFunc(ctx, source, pageID)
	}
	return nil, nil
}

func (m *mockChannelRepository) GetBySID(ctx context.Context, sid string) (*channel.Channel, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockChannelRepository) Upsert(ctx context.Context, ch *channel.Channel) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, ch)
	}
	m.upserted = append(m.upserted, ch)
	ch.ID = uint(len(m.upserted))
	return nil
}

func (m *mockChannelRepository) Update(ctx context.Context, ch *channel.Channel) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ch)
	}
	return nil
}

func (m *mockChannelRepository) List(ctx context.Context, filter channel.ListFilter) ([]*channel.Channel, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return m.upserted, int64(len(m.upserted)), nil
}

type mockSessionStore struct {
	sessions map[string]LinkSession

	SaveFunc func(ctx context.Context, state string, session LinkSession) error
	TakeFunc func(ctx context.Context, state string) (*LinkSession, error)
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]LinkSession{}}
}

func (m *mockSessionStore) Save(ctx context.Context, state string, session LinkSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, state, session)
	}
	m.sessions[state] = session
	return nil
}

func (m *mockSessionStore) Take(ctx context.Context, state string) (*LinkSession, error) {
	if m.TakeFunc != nil {
		return m.TakeFunc(ctx, state)
	}
	session, ok := m.sessions[state]
	if !ok {
		return nil, errSessionMissing
	}
	delete(m.sessions, state)
	return &session, nil
}

type mockConnector struct {
	source       channel.Source
	requiresPKCE bool

	BuildAuthURLFunc  func(state, codeChallenge string) string
	ExchangeFunc      func(ctx context.Context, code, codeVerifier string) (*channel.TokenSet, error)
	FetchAccountsFunc func(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error)
	SubscribeFunc     func(ctx context.Context, account channel.LinkedAccount) error

	exchangeCalls  int
	fetchCalls     int
	subscribeCalls []string
}

func (m *mockConnector) Source() channel.Source { return m.source }
func (m *mockConnector) RequiresPKCE() bool     { return m.requiresPKCE }

func (m *mockConnector) BuildAuthURL(state, codeChallenge string) string {
	if m.BuildAuthURLFunc != nil {
		return m.BuildAuthURLFunc(state, codeChallenge)
	}
	return "https://provider.example.com/auth?state=" + state
}

func (m *mockConnector) Exchange(ctx context.Context, code, codeVerifier string) (*channel.TokenSet, error) {
	m.exchangeCalls++
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code, codeVerifier)
	}
	return &channel.TokenSet{AccessToken: "user-token"}, nil
}

func (m *mockConnector) FetchAccounts(ctx context.Context, tokens *channel.TokenSet) ([]channel.LinkedAccount, error) {
	m.fetchCalls++
	if m.FetchAccountsFunc != nil {
		return m.FetchAccountsFunc(ctx, tokens)
	}
	return nil, nil
}

func (m *mockConnector) Subscribe(ctx context.Context, account channel.LinkedAccount) error {
	m.subscribeCalls = append(m.subscribeCalls, account.PageID)
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, account)
	}
	return nil
}

type mockConnectorFactory struct {
	connector *mockConnector
	err       error
}

func (m *mockConnectorFactory) ForSource(settings *integration.Setting, source channel.Source) (channel.Connector, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.connector, nil
}

type mockNotifier struct {
	alerts []string
}

func (m *mockNotifier) SendLinkFailureAlert(source, message, logURL string) error {
	m.alerts = append(m.alerts, source+": "+message+" -> "+logURL)
	return nil
}
