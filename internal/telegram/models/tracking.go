package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackedSource 用户追踪的源聊天
// 所有用户共用一个集合，按 (user_id, handle) 唯一约束做逻辑分区
type TrackedSource struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"user_id"`    // 归属用户
	Handle    string             `bson:"handle"`     // @username 形式的聊天别名
	CreatedAt time.Time          `bson:"created_at"` // 添加时间
}

// Keyword 用户的追踪关键词
// 存储时保留原始大小写，匹配时忽略大小写
type Keyword struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"user_id"`    // 归属用户
	Word      string             `bson:"word"`       // 关键词或词组
	CreatedAt time.Time          `bson:"created_at"` // 添加时间
}

// TargetGroup 转发目标群，每个用户最多一条记录
// 重新设置时整体替换（user_id 唯一约束保证一对一）
type TargetGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"user_id"`    // 归属用户（唯一）
	Handle    string             `bson:"handle"`     // @username 形式的群别名
	UpdatedAt time.Time          `bson:"updated_at"` // 最近设置时间
}
