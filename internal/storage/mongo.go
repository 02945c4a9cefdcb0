package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/news"
)

// MongoRepository persists articles in a MongoDB collection keyed by a
// unique slug.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRepository connects and ensures the slug index.
func NewMongoRepository(ctx context.Context, uri, database, collection string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	repo := &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}

	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	logger.Info("mongo connected", "database", database, "collection", collection)
	return repo, nil
}

func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create slug index: %w", err)
	}
	return nil
}

// FindBySlug returns the stored article or (nil, nil) when absent.
func (r *MongoRepository) FindBySlug(ctx context.Context, slug string) (*news.Article, error) {
	var article news.Article
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return &article, nil
}

// Create inserts a new article, assigning identity and timestamps.
func (r *MongoRepository) Create(ctx context.Context, article *news.Article) error {
	now := time.Now().UTC()
	article.ID = primitive.NewObjectID()
	article.CreatedAt = now
	article.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, article); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
