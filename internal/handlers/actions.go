package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/zfogg/factoryfeed/internal/dto"
	apperrors "github.com/zfogg/factoryfeed/internal/errors"
	"github.com/zfogg/factoryfeed/internal/logger"
	"github.com/zfogg/factoryfeed/internal/repository"
	"go.uber.org/zap"
)

// Action names the operation selected by the ?action= query parameter
type Action string

const (
	ActionPosts      Action = "posts"
	ActionProfile    Action = "profile"
	ActionCreatePost Action = "create_post"
	ActionToggleLike Action = "toggle_like"
	ActionAddComment Action = "add_comment"
	ActionComments   Action = "comments"
)

type actionFunc func(h *Handlers, ctx context.Context, repo repository.FeedRepository, req *request) (int, interface{}, error)

type route struct {
	method string
	action Action
}

// routes is the full set of supported (method, action) pairs. Anything else,
// including a known action under the wrong method, is an unknown action.
var routes = map[route]actionFunc{
	{"GET", ActionPosts}:       (*Handlers).listPosts,
	{"GET", ActionProfile}:     (*Handlers).getProfile,
	{"GET", ActionComments}:    (*Handlers).listComments,
	{"POST", ActionCreatePost}: (*Handlers).createPost,
	{"POST", ActionToggleLike}: (*Handlers).toggleLike,
	{"POST", ActionAddComment}: (*Handlers).addComment,
}

func lookup(method string, action Action) (actionFunc, bool) {
	fn, ok := routes[route{method: method, action: action}]
	return fn, ok
}

// GET ?action=posts
func (h *Handlers) listPosts(ctx context.Context, repo repository.FeedRepository, _ *request) (int, interface{}, error) {
	rows, err := repo.ListPosts(ctx)
	if err != nil {
		return 0, nil, apperrors.InternalError(err)
	}

	posts := make([]dto.PostView, 0, len(rows))
	for _, row := range rows {
		createdAt := row.CreatedAt
		posts = append(posts, dto.PostView{
			ID:            row.ID,
			Author:        row.DisplayName,
			Factory:       row.Factory,
			Content:       row.Content,
			Achievement:   row.AchievementBadge,
			Likes:         row.LikesCount,
			CommentsCount: row.CommentsCount,
			Timestamp:     h.formatter.Format(&createdAt),
			AvatarEmoji:   row.AvatarEmoji,
		})
	}
	return http.StatusOK, dto.PostsResponse{Posts: posts}, nil
}

// GET ?action=profile&userId=
func (h *Handlers) getProfile(ctx context.Context, repo repository.FeedRepository, req *request) (int, interface{}, error) {
	userID, err := req.queryID("userId")
	if err != nil {
		return 0, nil, err
	}

	profile, err := repo.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return 0, nil, apperrors.NotFound("user")
	}
	if err != nil {
		return 0, nil, apperrors.InternalError(err)
	}

	resp := dto.ProfileResponse{
		User:    profile.User,
		Badges:  profile.Badges,
		Records: profile.Records,
	}
	if resp.Badges == nil {
		resp.Badges = []string{}
	}
	if resp.Records == nil {
		resp.Records = []string{}
	}
	return http.StatusOK, resp, nil
}

// GET ?action=comments&postId=
func (h *Handlers) listComments(ctx context.Context, repo repository.FeedRepository, req *request) (int, interface{}, error) {
	postID, err := req.queryID("postId")
	if err != nil {
		return 0, nil, err
	}

	rows, err := repo.ListComments(ctx, postID)
	if err != nil {
		return 0, nil, apperrors.InternalError(err)
	}

	comments := make([]dto.CommentView, 0, len(rows))
	for _, row := range rows {
		createdAt := row.CreatedAt
		comments = append(comments, dto.CommentView{
			ID:          row.ID,
			Author:      row.DisplayName,
			Content:     row.Content,
			Timestamp:   h.formatter.Format(&createdAt),
			AvatarEmoji: row.AvatarEmoji,
		})
	}
	return http.StatusOK, dto.CommentsResponse{Comments: comments}, nil
}

// POST ?action=create_post
func (h *Handlers) createPost(ctx context.Context, repo repository.FeedRepository, req *request) (int, interface{}, error) {
	var body createPostBody
	if err := req.decodeBody(h.validate, &body, "userId and content are required"); err != nil {
		return 0, nil, err
	}

	postID, err := repo.CreatePost(ctx, int64(body.UserID), body.Content, body.Achievement)
	if errors.Is(err, repository.ErrUserNotFound) {
		return 0, nil, apperrors.NotFound("user")
	}
	if err != nil {
		return 0, nil, apperrors.InternalError(err)
	}

	h.metrics.PostsCreated.Inc()
	logger.Log.Debug("Post created",
		logger.WithUserID(int64(body.UserID)),
		logger.WithPostID(postID),
	)
	return http.StatusCreated, dto.CreatePostResponse{Success: true, PostID: postID}, nil
}

// POST ?action=toggle_like
func (h *Handlers) toggleLike(ctx context.Context, repo repository.FeedRepository, req *request) (int, interface{}, error) {
	var body toggleLikeBody
	if err := req.decodeBody(h.validate, &body, "postId and userId are required"); err != nil {
		return 0, nil, err
	}

	liked, likesCount, err := repo.ToggleLike(ctx, int64(body.PostID), int64(body.UserID))
	if errors.Is(err, repository.ErrPostNotFound) {
		return 0, nil, apperrors.NotFound("post")
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return 0, nil, apperrors.NotFound("user")
	}
	if err != nil {
		return 0, nil, apperrors.InternalError(err)
	}

	h.metrics.LikesToggled.WithLabelValues(strconv.FormatBool(liked)).Inc()
	logger.Log.Debug("Like toggled",
		logger.WithUserID(int64(body.UserID)),
		logger.WithPostID(int64(body.PostID)),
		zap.Bool("liked", liked),
		zap.Int("likes_count", likesCount),
	)
	return http.StatusOK, dto.ToggleLikeResponse{Success: true, Liked: liked, LikesCount: likesCount}, nil
}

// POST ?action=add_comment
func (h *Handlers) addComment(ctx context.Context, repo repository.FeedRepository, req *request) (int, interface{}, error) {
	var body addCommentBody
	if err := req.decodeBody(h.validate, &body, "postId, userId and content are required"); err != nil {
		return 0, nil, err
	}

	commentID, err := repo.AddComment(ctx, int64(body.PostID), int64(body.UserID), body.Content)
	if errors.Is(err, repository.ErrPostNotFound) {
		return 0, nil, apperrors.NotFound("post")
	}
	if err != nil {
		return 0, nil, apperrors.InternalError(err)
	}

	h.metrics.CommentsAdded.Inc()
	return http.StatusCreated, dto.AddCommentResponse{Success: true, CommentID: commentID}, nil
}
