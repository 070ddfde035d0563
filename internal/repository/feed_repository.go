package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zfogg/factoryfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")
)

// PostRow is a post joined with its author
type PostRow struct {
	ID               int64
	UserID           int64
	Content          string
	AchievementBadge *string
	LikesCount       int
	CommentsCount    int
	CreatedAt        time.Time
	DisplayName      string
	Factory          string
	AvatarEmoji      string
}

// CommentRow is a comment joined with its author
type CommentRow struct {
	ID          int64
	PostID      int64
	UserID      int64
	Content     string
	CreatedAt   time.Time
	DisplayName string
	AvatarEmoji string
}

// Profile is a user with its badge and record labels
type Profile struct {
	User    *models.User
	Badges  []string
	Records []string
}

// CounterDrift describes a post whose stored counters disagree with its rows
type CounterDrift struct {
	PostID         int64
	LikesCount     int
	ActualLikes    int
	CommentsCount  int
	ActualComments int
}

// FeedRepository handles all database operations behind the feed actions.
// Implementations are bound to one *gorm.DB; pass a transaction to make a
// sequence of calls atomic.
type FeedRepository interface {
	ListPosts(ctx context.Context) ([]PostRow, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	CreatePost(ctx context.Context, userID int64, content string, achievement *string) (int64, error)
	ToggleLike(ctx context.Context, postID, userID int64) (liked bool, likesCount int, err error)
	AddComment(ctx context.Context, postID, userID int64, content string) (int64, error)
	ListComments(ctx context.Context, postID int64) ([]CommentRow, error)

	// Counter audit
	FindCounterDrift(ctx context.Context) ([]CounterDrift, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// ListPosts returns every post with its author, newest first
func (r *feedRepository) ListPosts(ctx context.Context) ([]PostRow, error) {
	var rows []PostRow
	err := r.db.WithContext(ctx).
		Table("posts AS p").
		Select("p.id, p.user_id, p.content, p.achievement_badge, p.likes_count, p.comments_count, p.created_at, " +
			"u.display_name, u.factory, u.avatar_emoji").
		Joins("JOIN users u ON p.user_id = u.id").
		Order("p.created_at DESC, p.id DESC").
		Scan(&rows).Error
	return rows, err
}

// GetProfile loads a user with badge names and record texts
func (r *feedRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	db := r.db.WithContext(ctx)

	var user models.User
	err := db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: &user}
	if err := db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Order("id").
		Pluck("badge_name", &profile.Badges).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.UserRecord{}).Where("user_id = ?", userID).Order("id").
		Pluck("record_text", &profile.Records).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreatePost inserts a post and returns its generated id
func (r *feedRepository) CreatePost(ctx context.Context, userID int64, content string, achievement *string) (int64, error) {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrUserNotFound
	}

	post := models.Post{
		UserID:           userID,
		Content:          content,
		AchievementBadge: achievement,
	}
	if err := db.Create(&post).Error; err != nil {
		return 0, err
	}
	return post.ID, nil
}

// ToggleLike flips userID's like on postID and adjusts likes_count to match.
// The post row is locked first so concurrent toggles on one post serialize.
func (r *feedRepository) ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error) {
	db := r.db.WithContext(ctx)

	var post models.Post
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, 0, ErrPostNotFound
	}
	if err != nil {
		return false, 0, err
	}

	var users int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
		return false, 0, err
	}
	if users == 0 {
		return false, 0, ErrUserNotFound
	}

	var like models.Like
	if err := db.Where("post_id = ? AND user_id = ?", postID, userID).Limit(1).Find(&like).Error; err != nil {
		return false, 0, err
	}

	liked := like.ID == 0
	delta := "likes_count + 1"
	if liked {
		if err := db.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
			return false, 0, err
		}
	} else {
		if err := db.Delete(&models.Like{}, like.ID).Error; err != nil {
			return false, 0, err
		}
		delta = "likes_count - 1"
	}

	if err := db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr(delta)).Error; err != nil {
		return false, 0, err
	}

	// Read back inside the same transaction so the caller sees its own write
	if err := db.Select("likes_count").Where("id = ?", postID).Take(&post).Error; err != nil {
		return false, 0, err
	}
	return liked, post.LikesCount, nil
}

// AddComment inserts a comment and bumps the post's comments_count
func (r *feedRepository) AddComment(ctx context.Context, postID, userID int64, content string) (int64, error) {
	db := r.db.WithContext(ctx)

	comment := models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := db.Create(&comment).Error; err != nil {
		return 0, err
	}

	res := db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrPostNotFound
	}
	return comment.ID, nil
}

// ListComments returns a post's comments with their authors, oldest first
func (r *feedRepository) ListComments(ctx context.Context, postID int64) ([]CommentRow, error) {
	var rows []CommentRow
	err := r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.id, c.post_id, c.user_id, c.content, c.created_at, u.display_name, u.avatar_emoji").
		Joins("JOIN users u ON c.user_id = u.id").
		Where("c.post_id = ?", postID).
		Order("c.created_at ASC, c.id ASC").
		Scan(&rows).Error
	return rows, err
}

const (
	actualLikesSQL    = "(SELECT COUNT(*) FROM likes l WHERE l.post_id = posts.id)"
	actualCommentsSQL = "(SELECT COUNT(*) FROM comments c WHERE c.post_id = posts.id)"
)

// FindCounterDrift lists posts whose likes_count or comments_count no longer
// match the rows they count
func (r *feedRepository) FindCounterDrift(ctx context.Context) ([]CounterDrift, error) {
	var drift []CounterDrift
	err := r.db.WithContext(ctx).Raw(
		"SELECT posts.id AS post_id, posts.likes_count, posts.comments_count, " +
			actualLikesSQL + " AS actual_likes, " +
			actualCommentsSQL + " AS actual_comments " +
			"FROM posts WHERE posts.likes_count <> " + actualLikesSQL +
			" OR posts.comments_count <> " + actualCommentsSQL +
			" ORDER BY posts.id",
	).Scan(&drift).Error
	return drift, err
}

// ReconcileCounters rewrites drifted counters from the underlying rows and
// returns the number of posts repaired
func (r *feedRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE posts SET likes_count = " + actualLikesSQL +
			", comments_count = " + actualCommentsSQL +
			" WHERE likes_count <> " + actualLikesSQL +
			" OR comments_count <> " + actualCommentsSQL,
	)
	return res.RowsAffected, res.Error
}
