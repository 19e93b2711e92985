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

// MongoTargetGroupRepository 转发目标群数据访问层
// user_id 唯一索引保证一个用户只有一条目标群记录
type MongoTargetGroupRepository struct {
	collection *mongo.Collection
}

// NewTargetGroupRepository 创建目标群 Repository
func NewTargetGroupRepository(db *mongo.Database) *MongoTargetGroupRepository {
	return &MongoTargetGroupRepository{
		collection: db.Collection("target_groups"),
	}
}

// Set 设置目标群，已有记录整体替换
func (r *MongoTargetGroupRepository) Set(ctx context.Context, userID int64, handle string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"handle":     handle,
			"updated_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to set target group: %w", err)
	}
	return nil
}

// Get 用户的目标群 handle，未设置返回 mongo.ErrNoDocuments
func (r *MongoTargetGroupRepository) Get(ctx context.Context, userID int64) (string, error) {
	var target models.TargetGroup
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", err
		}
		return "", fmt.Errorf("failed to get target group: %w", err)
	}
	return target.Handle, nil
}

// EnsureIndexes 确保索引存在
func (r *MongoTargetGroupRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
