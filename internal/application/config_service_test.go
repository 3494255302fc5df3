package application

import (
	"context"
	"testing"

	"skyutilities-dashboard/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigService_ReminderRoundTrip(t *testing.T) {
	repo := newMemoryConfigRepository[domain.ReminderConfig]()
	svc := NewConfigService[domain.ReminderConfig](domain.ReminderConfigDomain, repo, zerolog.Nop())
	ctx := context.Background()

	input := &domain.ReminderConfig{
		GuildID:          "1",
		ReminderText:     "hydrate",
		ReminderInterval: ptr(60.0),
		Disabled:         ptr(false),
	}
	saved, err := svc.Upsert(ctx, "1", input)
	require.NoError(t, err)
	assert.Equal(t, "hydrate", saved.ReminderText)

	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.GuildID)
	assert.Equal(t, "hydrate", got.ReminderText)
	assert.Equal(t, 60.0, *got.ReminderInterval)
	assert.False(t, *got.Disabled)
}

func TestConfigService_UpsertReplacesInsteadOfMerging(t *testing.T) {
	repo := newMemoryConfigRepository[domain.FeatureConfig]()
	svc := NewConfigService[domain.FeatureConfig](domain.FeatureConfigDomain, repo, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "1", &domain.FeatureConfig{GuildID: "1", APIKey: ptr("secret"), StaffRoleID: ptr("42")})
	require.NoError(t, err)

	_, err = svc.Upsert(ctx, "1", &domain.FeatureConfig{GuildID: "1", StaffRoleID: ptr("43")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, got.APIKey)
	assert.Equal(t, "43", *got.StaffRoleID)
}

func TestConfigService_Validation(t *testing.T) {
	repo := newMemoryConfigRepository[domain.ReminderConfig]()
	svc := NewConfigService[domain.ReminderConfig](domain.ReminderConfigDomain, repo, zerolog.Nop())
	ctx := context.Background()

	t.Run("missing interval", func(t *testing.T) {
		_, err := svc.Upsert(ctx, "1", &domain.ReminderConfig{GuildID: "1", ReminderText: "hydrate", Disabled: ptr(false)})
		require.Error(t, err)
		assert.Equal(t, domain.KindValidationFailed, domain.KindOf(err))
		assert.Zero(t, repo.upserts)
	})

	t.Run("zero interval accepted", func(t *testing.T) {
		saved, err := svc.Upsert(ctx, "1", &domain.ReminderConfig{GuildID: "1", ReminderText: "hydrate", ReminderInterval: ptr(0.0), Disabled: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, 0.0, *saved.ReminderInterval)
	})

	t.Run("missing guild id", func(t *testing.T) {
		_, err := svc.Upsert(ctx, "", &domain.ReminderConfig{ReminderText: "hydrate", ReminderInterval: ptr(1.0), Disabled: ptr(false)})
		assert.Equal(t, domain.KindValidationFailed, domain.KindOf(err))
	})

	t.Run("nil document", func(t *testing.T) {
		_, err := svc.Upsert(ctx, "1", nil)
		assert.Equal(t, domain.KindValidationFailed, domain.KindOf(err))
	})
}

func TestConfigService_Clear(t *testing.T) {
	repo := newMemoryConfigRepository[domain.RestrictionConfig]()
	svc := NewConfigService[domain.RestrictionConfig](domain.RestrictionConfigDomain, repo, zerolog.Nop())
	ctx := context.Background()

	err := svc.Clear(ctx, "never")
	assert.Equal(t, domain.KindNotConfigured, domain.KindOf(err))

	_, err = svc.Upsert(ctx, "1", &domain.RestrictionConfig{GuildID: "1", TeamRestrictions: &[]string{"SWAT"}})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "1"))

	_, err = svc.Get(ctx, "1")
	assert.Equal(t, domain.KindNotConfigured, domain.KindOf(err))
}

func TestConfigService_StoreFailureIsNotNotConfigured(t *testing.T) {
	repo := newMemoryConfigRepository[domain.FeatureConfig]()
	repo.err = errStoreDown
	svc := NewConfigService[domain.FeatureConfig](domain.FeatureConfigDomain, repo, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Get(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.ErrorIs(t, err, errStoreDown)

	err = svc.Clear(ctx, "1")
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	_, err = svc.Upsert(ctx, "1", &domain.FeatureConfig{GuildID: "1"})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestConfigService_PublishesChanges(t *testing.T) {
	repo := newMemoryConfigRepository[domain.FeatureConfig]()
	events := &recordingPublisher{}
	svc := NewConfigService[domain.FeatureConfig](domain.FeatureConfigDomain, repo, zerolog.Nop()).WithEvents(events)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "1", &domain.FeatureConfig{GuildID: "1", Disabled: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "1"))
	assert.Error(t, svc.Clear(ctx, "1"))

	require.Len(t, events.events, 2)
	assert.Equal(t, "erlc", events.events[0].Domain)
	assert.Equal(t, domain.ConfigSaved, events.events[0].Action)
	assert.Equal(t, domain.ConfigCleared, events.events[1].Action)
	assert.Equal(t, "1", events.events[1].GuildID)
}
