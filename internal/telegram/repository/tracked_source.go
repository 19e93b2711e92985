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

// MongoTrackedSourceRepository 追踪源数据访问层
// 单集合按 (user_id, handle) 唯一索引做逻辑分区
type MongoTrackedSourceRepository struct {
	collection *mongo.Collection
}

// NewTrackedSourceRepository 创建追踪源 Repository
func NewTrackedSourceRepository(db *mongo.Database) *MongoTrackedSourceRepository {
	return &MongoTrackedSourceRepository{
		collection: db.Collection("tracked_sources"),
	}
}

// AddMany 批量添加追踪源
// 乱序插入，唯一索引冲突（重复 handle）静默跳过，返回实际新增数
func (r *MongoTrackedSourceRepository) AddMany(ctx context.Context, userID int64, handles []string) (int, error) {
	if len(handles) == 0 {
		return 0, nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(handles))
	for _, handle := range handles {
		docs = append(docs, models.TrackedSource{
			UserID:    userID,
			Handle:    handle,
			CreatedAt: now,
		})
	}

	opts := options.InsertMany().SetOrdered(false)
	result, err := r.collection.InsertMany(ctx, docs, opts)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return 0, fmt.Errorf("failed to add tracked sources: %w", err)
	}

	if result == nil {
		return 0, nil
	}
	return len(result.InsertedIDs), nil
}

// ListByUser 用户的全部源 handle
func (r *MongoTrackedSourceRepository) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked sources: %w", err)
	}
	defer cursor.Close(ctx)

	var sources []*models.TrackedSource
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, fmt.Errorf("failed to decode tracked sources: %w", err)
	}

	handles := make([]string, 0, len(sources))
	for _, source := range sources {
		handles = append(handles, source.Handle)
	}
	return handles, nil
}

// Delete 按值删除，删除不存在的 handle 不算错误
func (r *MongoTrackedSourceRepository) Delete(ctx context.Context, userID int64, handle string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "handle": handle})
	if err != nil {
		return fmt.Errorf("failed to delete tracked source: %w", err)
	}
	return nil
}

// EnsureIndexes 确保索引存在
func (r *MongoTrackedSourceRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "handle", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
