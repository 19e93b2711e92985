package repository

import (
	"context"
	"fmt"
	"time"

	"tracker_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogGroupRepository 群组目录数据访问层
type MongoCatalogGroupRepository struct {
	collection *mongo.Collection
}

// NewCatalogGroupRepository 创建目录 Repository
func NewCatalogGroupRepository(db *mongo.Database) *MongoCatalogGroupRepository {
	return &MongoCatalogGroupRepository{
		collection: db.Collection("catalog_groups"),
	}
}

// Upsert 按 username 去重收录
func (r *MongoCatalogGroupRepository) Upsert(ctx context.Context, group *models.CatalogGroup) error {
	filter := bson.M{"username": group.Username}
	update := bson.M{
		"$set": bson.M{
			"title":    group.Title,
			"kind":     group.Kind,
			"topic":    group.Topic,
			"link":     group.Link,
			"found_by": group.FoundBy,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert catalog group: %w", err)
	}
	return nil
}

// ListByTopic 按主题列出收录的群组
func (r *MongoCatalogGroupRepository) ListByTopic(ctx context.Context, topic string) ([]*models.CatalogGroup, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"topic": topic})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []*models.CatalogGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode catalog groups: %w", err)
	}
	return groups, nil
}

// Count 目录中的群组总数
func (r *MongoCatalogGroupRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog groups: %w", err)
	}
	return count, nil
}

// EnsureIndexes 确保索引存在
func (r *MongoCatalogGroupRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "topic", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
