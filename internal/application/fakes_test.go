package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"skyutilities-dashboard/internal/domain"
)

func ptr[T any](v T) *T { return &v }

type fakeIdentityProvider struct {
	token       string
	exchangeErr error
	user        *domain.UserIdentity
	identityErr error
	guilds      []domain.RawGuildMembership
	guildsErr   error

	exchangedCodes []string
}

func (f *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://discord.test/oauth2/authorize?state=" + state
}

func (f *fakeIdentityProvider) ExchangeCode(_ context.Context, code string) (string, error) {
	f.exchangedCodes = append(f.exchangedCodes, code)
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeIdentityProvider) FetchIdentity(_ context.Context, _ string) (*domain.UserIdentity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.user, nil
}

func (f *fakeIdentityProvider) FetchUserGuilds(_ context.Context, _ string) ([]domain.RawGuildMembership, error) {
	if f.guildsErr != nil {
		return nil, f.guildsErr
	}
	return f.guilds, nil
}

type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]bool
	err    error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]bool)}
}

func (f *fakeStateStore) Save(_ context.Context, state string, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[state] = true
	return nil
}

func (f *fakeStateStore) Consume(_ context.Context, state string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ok := f.states[state]
	delete(f.states, state)
	return ok, nil
}

type fakeDirectory struct {
	ready      bool
	cached     map[string]domain.Guild
	guildErr   error
	members    []domain.GuildMember
	membersErr error

	fetchCalls int
}

func (f *fakeDirectory) IsReady() bool { return f.ready }

func (f *fakeDirectory) GuildIsMember(guildID string) bool {
	_, ok := f.cached[guildID]
	return ok
}

func (f *fakeDirectory) FetchGuild(_ context.Context, guildID string) (*domain.Guild, error) {
	f.fetchCalls++
	if f.guildErr != nil {
		return nil, f.guildErr
	}
	g := f.cached[guildID]
	return &g, nil
}

func (f *fakeDirectory) FetchMembers(_ context.Context, _ string) ([]domain.GuildMember, error) {
	f.fetchCalls++
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members, nil
}

func (f *fakeDirectory) CachedGuilds() []domain.Guild {
	guilds := make([]domain.Guild, 0, len(f.cached))
	for _, g := range f.cached {
		guilds = append(guilds, g)
	}
	return guilds
}

// memoryConfigRepository replaces the whole document on upsert
type memoryConfigRepository[T any] struct {
	mu      sync.Mutex
	docs    map[string]T
	err     error
	upserts int
}

func newMemoryConfigRepository[T any]() *memoryConfigRepository[T] {
	return &memoryConfigRepository[T]{docs: make(map[string]T)}
}

func (r *memoryConfigRepository[T]) GetByGuildID(_ context.Context, guildID string) (*T, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[guildID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *memoryConfigRepository[T]) Upsert(_ context.Context, guildID string, config *T) (*T, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.docs[guildID] = *config
	stored := r.docs[guildID]
	return &stored, nil
}

func (r *memoryConfigRepository[T]) DeleteByGuildID(_ context.Context, guildID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.docs[guildID]
	delete(r.docs, guildID)
	return ok, nil
}

var errStoreDown = errors.New("server selection timeout")

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type recordingPublisher struct {
	events []*domain.ConfigChangeEvent
}

func (p *recordingPublisher) Publish(event *domain.ConfigChangeEvent) {
	p.events = append(p.events, event)
}
