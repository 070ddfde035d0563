package models

import "time"

// User is a feed member. This service never writes users outside of seeding.
type User struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	Factory     string    `gorm:"not null;default:''" json:"factory"`
	AvatarEmoji string    `gorm:"not null;default:''" json:"avatar_emoji"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post is a feed entry. LikesCount and CommentsCount are denormalized and only
// change together with the Like/Comment rows they count.
type Post struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	UserID           int64     `gorm:"not null;index" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID" json:"-"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	AchievementBadge *string   `json:"achievement_badge"`
	LikesCount       int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount    int       `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// Like marks that UserID likes PostID. The pair is unique.
type Like struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PostID    int64     `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is an append-only reply to a post
type Comment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PostID    int64     `gorm:"not null;index:idx_comments_post_created,priority:1" json:"post_id"`
	UserID    int64     `gorm:"not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_comments_post_created,priority:2" json:"created_at"`
}

type UserBadge struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"not null;index" json:"user_id"`
	BadgeName string `gorm:"not null" json:"badge_name"`
}

type UserRecord struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	UserID     int64  `gorm:"not null;index" json:"user_id"`
	RecordText string `gorm:"type:text;not null" json:"record_text"`
}

// All lists every model in foreign-key order, for migrations and tests
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Like{},
		&Comment{},
		&UserBadge{},
		&UserRecord{},
	}
}
