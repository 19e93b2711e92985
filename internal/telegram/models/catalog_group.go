package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogGroup AI 搜索收录的公开群组 / 频道（全局目录，不分用户）
type CatalogGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`           // @username（唯一）
	Title     string             `bson:"title,omitempty"`    // 显示名称
	Kind      string             `bson:"kind"`               // "group" 或 "channel"
	Topic     string             `bson:"topic,omitempty"`    // 搜索时使用的主题
	Link      string             `bson:"link"`               // https://t.me/... 直链
	FoundBy   int64              `bson:"found_by,omitempty"` // 发起搜索的用户
	CreatedAt time.Time          `bson:"created_at"`         // 收录时间
}
