package dto

import "github.com/zfogg/factoryfeed/internal/models"

// PostView is one entry of the posts listing
type PostView struct {
	ID            int64   `json:"id"`
	Author        string  `json:"author"`
	Factory       string  `json:"factory"`
	Content       string  `json:"content"`
	Achievement   *string `json:"achievement"`
	Likes         int     `json:"likes"`
	CommentsCount int     `json:"commentsCount"`
	Timestamp     string  `json:"timestamp"`
	AvatarEmoji   string  `json:"avatarEmoji"`
}

type PostsResponse struct {
	Posts []PostView `json:"posts"`
}

// CommentView is one entry of a post's comment thread
type CommentView struct {
	ID          int64  `json:"id"`
	Author      string `json:"author"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
	AvatarEmoji string `json:"avatarEmoji"`
}

type CommentsResponse struct {
	Comments []CommentView `json:"comments"`
}

// ProfileResponse returns the user row as stored, plus its label lists
type ProfileResponse struct {
	User    *models.User `json:"user"`
	Badges  []string     `json:"badges"`
	Records []string     `json:"records"`
}

type CreatePostResponse struct {
	Success bool  `json:"success"`
	PostID  int64 `json:"postId"`
}

type ToggleLikeResponse struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type AddCommentResponse struct {
	Success   bool  `json:"success"`
	CommentID int64 `json:"commentId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
