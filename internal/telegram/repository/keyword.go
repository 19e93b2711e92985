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

// MongoKeywordRepository 关键词数据访问层
// 单集合按 (user_id, word) 唯一索引做逻辑分区，word 保留原始大小写
type MongoKeywordRepository struct {
	collection *mongo.Collection
}

// NewKeywordRepository 创建关键词 Repository
func NewKeywordRepository(db *mongo.Database) *MongoKeywordRepository {
	return &MongoKeywordRepository{
		collection: db.Collection("keywords"),
	}
}

// AddMany 批量添加关键词，重复的词静默跳过，返回实际新增数
func (r *MongoKeywordRepository) AddMany(ctx context.Context, userID int64, words []string) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(words))
	for _, word := range words {
		docs = append(docs, models.Keyword{
			UserID:    userID,
			Word:      word,
			CreatedAt: now,
		})
	}

	opts := options.InsertMany().SetOrdered(false)
	result, err := r.collection.InsertMany(ctx, docs, opts)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return 0, fmt.Errorf("failed to add keywords: %w", err)
	}

	if result == nil {
		return 0, nil
	}
	return len(result.InsertedIDs), nil
}

// ListByUser 用户的全部关键词
func (r *MongoKeywordRepository) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer cursor.Close(ctx)

	var keywords []*models.Keyword
	if err := cursor.All(ctx, &keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}

	words := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		words = append(words, kw.Word)
	}
	return words, nil
}

// Delete 按值删除（幂等）
func (r *MongoKeywordRepository) Delete(ctx context.Context, userID int64, word string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "word": word})
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	return nil
}

// EnsureIndexes 确保索引存在
func (r *MongoKeywordRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "word", Value: 1},
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
