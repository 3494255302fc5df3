package pubsub

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/rs/zerolog"
)

// ConfigEventChannel represents a subscription channel
type ConfigEventChannel struct {
	ID     string
	Filter *ConfigEventFilter
	Events chan *domain.ConfigChangeEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// ConfigEventFilter filters configuration events
type ConfigEventFilter struct {
	Domains []string // Filter by config domain name
	GuildID string
}

// ConfigEvents manages configuration change subscriptions
type ConfigEvents struct {
	mu       sync.RWMutex
	channels map[string]*ConfigEventChannel
	logger   zerolog.Logger
	nextID   int64
	idMu     sync.Mutex
}

// NewConfigEvents creates a new config event pub/sub
func NewConfigEvents(logger zerolog.Logger) *ConfigEvents {
	return &ConfigEvents{
		channels: make(map[string]*ConfigEventChannel),
		logger:   logger,
	}
}

var _ ports.ConfigEventPublisher = (*ConfigEvents)(nil)

// Subscribe creates a new subscription channel that lives until ctx is cancelled
func (ps *ConfigEvents) Subscribe(ctx context.Context, filter *ConfigEventFilter) *ConfigEventChannel {
	ps.idMu.Lock()
	id := ps.generateID()
	ps.idMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)

	channel := &ConfigEventChannel{
		ID:     id,
		Filter: filter,
		Events: make(chan *domain.ConfigChangeEvent, 16),
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.channels[id] = channel
	ps.mu.Unlock()

	ps.logger.Debug().
		Str("channelId", id).
		Msg("Config subscription created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(id)
	}()

	return channel
}

// Unsubscribe removes a subscription channel and closes it
func (ps *ConfigEvents) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	close(channel.Done)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Debug().
		Str("channelId", channelID).
		Msg("Config subscription removed")
}

// Publish broadcasts an event to every matching subscriber without blocking
func (ps *ConfigEvents) Publish(event *domain.ConfigChangeEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, channel := range ps.channels {
		if !matchesFilter(event, channel.Filter) {
			continue
		}
		select {
		case channel.Events <- event:
		default:
			ps.logger.Warn().
				Str("channelId", channel.ID).
				Str("domain", event.Domain).
				Msg("Channel buffer full, dropping config event")
		}
	}
}

// Subscribers returns the number of active subscriptions
func (ps *ConfigEvents) Subscribers() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.channels)
}

func matchesFilter(event *domain.ConfigChangeEvent, filter *ConfigEventFilter) bool {
	if filter == nil {
		return true
	}
	if len(filter.Domains) > 0 && !slices.Contains(filter.Domains, event.Domain) {
		return false
	}
	if filter.GuildID != "" && event.GuildID != filter.GuildID {
		return false
	}
	return true
}

func (ps *ConfigEvents) generateID() string {
	ps.nextID++
	return fmt.Sprintf("channel-%d", ps.nextID)
}
