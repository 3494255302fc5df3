package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"skyutilities-dashboard/internal/application"
	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/infrastructure/metrics"
	"skyutilities-dashboard/internal/infrastructure/repository"
	"skyutilities-dashboard/internal/infrastructure/session"

	"github.com/rs/zerolog"
)

type fakeIdentity struct {
	token       string
	exchangeErr error
	user        *domain.UserIdentity
	identityErr error
	guilds      []domain.RawGuildMembership
	guildsErr   error

	calls int
}

func (f *fakeIdentity) AuthCodeURL(state string) string {
	return "https://discord.test/oauth2/authorize?state=" + state
}

func (f *fakeIdentity) ExchangeCode(context.Context, string) (string, error) {
	f.calls++
	return f.token, f.exchangeErr
}

func (f *fakeIdentity) FetchIdentity(context.Context, string) (*domain.UserIdentity, error) {
	f.calls++
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.user, nil
}

func (f *fakeIdentity) FetchUserGuilds(context.Context, string) ([]domain.RawGuildMembership, error) {
	f.calls++
	if f.guildsErr != nil {
		return nil, f.guildsErr
	}
	return f.guilds, nil
}

type fakeDirectory struct {
	mu         sync.Mutex
	ready      bool
	cached     []domain.Guild
	members    map[string][]domain.GuildMember
	fetchCalls int
}

func (f *fakeDirectory) IsReady() bool { return f.ready }

func (f *fakeDirectory) GuildIsMember(guildID string) bool {
	for _, g := range f.cached {
		if g.ID == guildID {
			return true
		}
	}
	return false
}

func (f *fakeDirectory) FetchGuild(_ context.Context, guildID string) (*domain.Guild, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	for _, g := range f.cached {
		if g.ID == guildID {
			return &g, nil
		}
	}
	return nil, domain.NewError(domain.KindNotFound, "Discord guild not found.")
}

func (f *fakeDirectory) FetchMembers(_ context.Context, guildID string) ([]domain.GuildMember, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	return f.members[guildID], nil
}

func (f *fakeDirectory) CachedGuilds() []domain.Guild { return f.cached }

type memoryRepository[T any] struct {
	mu   sync.Mutex
	docs map[string]T
}

func newMemoryRepository[T any]() *memoryRepository[T] {
	return &memoryRepository[T]{docs: make(map[string]T)}
}

func (r *memoryRepository[T]) GetByGuildID(_ context.Context, guildID string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[guildID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *memoryRepository[T]) Upsert(_ context.Context, guildID string, config *T) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[guildID] = *config
	stored := r.docs[guildID]
	return &stored, nil
}

func (r *memoryRepository[T]) DeleteByGuildID(_ context.Context, guildID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.docs[guildID]
	delete(r.docs, guildID)
	return ok, nil
}

type testServer struct {
	handler   http.Handler
	identity  *fakeIdentity
	directory *fakeDirectory
	generator *fakeGenerator
}

type fakeGenerator struct {
	answer string
	err    error
}

func (f *fakeGenerator) GenerateText(context.Context, string) (string, error) {
	return f.answer, f.err
}

func newTestServer(t *testing.T, withAssistant bool) *testServer {
	t.Helper()
	logger := zerolog.Nop()
	identity := &fakeIdentity{
		token: "tok",
		user:  &domain.UserIdentity{ID: "42", Username: "operator"},
	}
	directory := &fakeDirectory{members: map[string][]domain.GuildMember{}}

	ts := &testServer{identity: identity, directory: directory}
	assistant := application.NewAssistantService(nil, logger)
	if withAssistant {
		ts.generator = &fakeGenerator{answer: "Open the ERLC tab."}
		assistant = application.NewAssistantService(ts.generator, logger)
	}

	ts.handler = NewRouter(Dependencies{
		Auth:         application.NewAuthService(identity, repository.NewMemoryStateStore(), logger),
		Guilds:       application.NewGuildService(identity, directory, logger),
		Assistant:    assistant,
		ERLC:         application.NewConfigService[domain.FeatureConfig](domain.FeatureConfigDomain, newMemoryRepository[domain.FeatureConfig](), logger),
		Reminders:    application.NewConfigService[domain.ReminderConfig](domain.ReminderConfigDomain, newMemoryRepository[domain.ReminderConfig](), logger),
		Restrictions: application.NewConfigService[domain.RestrictionConfig](domain.RestrictionConfigDomain, newMemoryRepository[domain.RestrictionConfig](), logger),
		Directory:    directory,
		Sessions:     session.NewCookieStore("http://localhost:8080"),
		Metrics:      metrics.New(),

		AllowedOrigins: []string{"*"},
		StaticDir:      t.TempDir(),
		SwaggerFile:    "../../../docs/swagger.json",
		Logger:         logger,
	})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "tok"})
	req.AddCookie(&http.Cookie{Name: session.SubjectCookie, Value: "42"})
	return req
}
