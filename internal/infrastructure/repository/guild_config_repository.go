package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGuildConfigRepository implements GuildConfigRepository for one config domain.
// Documents are keyed by guildId with a unique index.
type MongoGuildConfigRepository[T any] struct {
	collection *mongo.Collection
	domain     domain.ConfigDomain
	now        func() time.Time
}

// NewMongoGuildConfigRepository creates a new MongoDB repository for the domain's collection
func NewMongoGuildConfigRepository[T any](db *mongo.Database, configDomain domain.ConfigDomain) *MongoGuildConfigRepository[T] {
	return &MongoGuildConfigRepository[T]{
		collection: db.Collection(configDomain.Collection),
		domain:     configDomain,
		now:        time.Now,
	}
}

var _ ports.GuildConfigRepository[domain.ReminderConfig] = (*MongoGuildConfigRepository[domain.ReminderConfig])(nil)

// EnsureIndexes creates the unique guildId index
func (r *MongoGuildConfigRepository[T]) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "guildId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create %s guildId index: %w", r.domain.Collection, err)
	}
	return nil
}

// GetByGuildID retrieves the guild's document
func (r *MongoGuildConfigRepository[T]) GetByGuildID(ctx context.Context, guildID string) (*T, error) {
	var doc T
	err := r.collection.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s config: %w", r.domain.Name, err)
	}
	return &doc, nil
}

// Upsert creates or replaces the guild's document in a single find-and-modify
func (r *MongoGuildConfigRepository[T]) Upsert(ctx context.Context, guildID string, config *T) (*T, error) {
	update, err := buildUpsert(r.domain, config, r.now())
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc T
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"guildId": guildID}, update, opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s config: %w", r.domain.Name, err)
	}
	return &doc, nil
}

// DeleteByGuildID deletes the guild's document
func (r *MongoGuildConfigRepository[T]) DeleteByGuildID(ctx context.Context, guildID string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"guildId": guildID})
	if err != nil {
		return false, fmt.Errorf("failed to delete %s config: %w", r.domain.Name, err)
	}
	return result.DeletedCount > 0, nil
}

// buildUpsert turns a document into an update that replaces every domain field.
// Present fields are set, absent fields are unset, and absent fields with a
// domain default only receive it when the document is inserted.
func buildUpsert(configDomain domain.ConfigDomain, config any, now time.Time) (bson.M, error) {
	raw, err := bson.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s config: %w", configDomain.Name, err)
	}

	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	onInsert := bson.M{"createdAt": now}

	for _, field := range configDomain.Fields {
		if value, err := bson.Raw(raw).LookupErr(field); err == nil {
			set[field] = value
			continue
		}
		if def, ok := configDomain.Defaults[field]; ok {
			onInsert[field] = def
			continue
		}
		unset[field] = ""
	}

	update := bson.M{"$set": set, "$setOnInsert": onInsert}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}
