package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/factoryfeed/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FeedRepositoryTestSuite runs the repository against in-memory SQLite
type FeedRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  FeedRepository
	ctx   context.Context
	ivan  *models.User
	maria *models.User
	base  time.Time
}

func TestFeedRepositorySuite(t *testing.T) {
	suite.Run(t, new(FeedRepositoryTestSuite))
}

func (suite *FeedRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(suite.T(), db.AutoMigrate(models.All()...))

	suite.db = db
	suite.repo = NewFeedRepository(db)
	suite.ctx = context.Background()
	suite.base = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	suite.ivan = &models.User{DisplayName: "Иван Петров", Factory: "ЗИЛ", AvatarEmoji: "👷"}
	suite.maria = &models.User{DisplayName: "Мария Сидорова", Factory: "Уралмаш", AvatarEmoji: "👩‍🔧"}
	require.NoError(suite.T(), db.Create(suite.ivan).Error)
	require.NoError(suite.T(), db.Create(suite.maria).Error)
}

func (suite *FeedRepositoryTestSuite) TearDownTest() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *FeedRepositoryTestSuite) createPost(user *models.User, content string, at time.Time) *models.Post {
	post := &models.Post{UserID: user.ID, Content: content, CreatedAt: at}
	require.NoError(suite.T(), suite.db.Create(post).Error)
	return post
}

func (suite *FeedRepositoryTestSuite) reloadPost(id int64) models.Post {
	var post models.Post
	require.NoError(suite.T(), suite.db.First(&post, id).Error)
	return post
}

func (suite *FeedRepositoryTestSuite) TestListPostsNewestFirstWithAuthor() {
	older := suite.createPost(suite.ivan, "План перевыполнен", suite.base)
	newer := suite.createPost(suite.maria, "Новый станок", suite.base.Add(time.Hour))
	suite.db.Model(newer).UpdateColumn("likes_count", 3)

	rows, err := suite.repo.ListPosts(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)

	suite.Equal(newer.ID, rows[0].ID)
	suite.Equal("Мария Сидорова", rows[0].DisplayName)
	suite.Equal("Уралмаш", rows[0].Factory)
	suite.Equal(3, rows[0].LikesCount)
	suite.Equal(older.ID, rows[1].ID)
	suite.Equal("👷", rows[1].AvatarEmoji)
	suite.True(rows[1].CreatedAt.Equal(suite.base))
}

func (suite *FeedRepositoryTestSuite) TestGetProfile() {
	suite.db.Create(&models.UserBadge{UserID: suite.ivan.ID, BadgeName: "Ударник труда"})
	suite.db.Create(&models.UserBadge{UserID: suite.ivan.ID, BadgeName: "Новатор"})
	suite.db.Create(&models.UserBadge{UserID: suite.maria.ID, BadgeName: "Чужой значок"})
	suite.db.Create(&models.UserRecord{UserID: suite.ivan.ID, RecordText: "150% нормы"})

	profile, err := suite.repo.GetProfile(suite.ctx, suite.ivan.ID)
	suite.Require().NoError(err)
	suite.Equal("Иван Петров", profile.User.DisplayName)
	suite.Equal([]string{"Ударник труда", "Новатор"}, profile.Badges)
	suite.Equal([]string{"150% нормы"}, profile.Records)
}

func (suite *FeedRepositoryTestSuite) TestGetProfileMissingUser() {
	_, err := suite.repo.GetProfile(suite.ctx, 9999)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *FeedRepositoryTestSuite) TestCreatePost() {
	badge := "Ударник труда"
	id, err := suite.repo.CreatePost(suite.ctx, suite.ivan.ID, "Смена закрыта", &badge)
	suite.Require().NoError(err)

	post := suite.reloadPost(id)
	suite.Equal(suite.ivan.ID, post.UserID)
	suite.Equal("Смена закрыта", post.Content)
	suite.Require().NotNil(post.AchievementBadge)
	suite.Equal(badge, *post.AchievementBadge)
	suite.Zero(post.LikesCount)
	suite.Zero(post.CommentsCount)
	suite.False(post.CreatedAt.IsZero())
}

func (suite *FeedRepositoryTestSuite) TestCreatePostUnknownUser() {
	_, err := suite.repo.CreatePost(suite.ctx, 9999, "hello", nil)
	suite.ErrorIs(err, ErrUserNotFound)

	var count int64
	suite.db.Model(&models.Post{}).Count(&count)
	suite.Zero(count)
}

func (suite *FeedRepositoryTestSuite) TestToggleLikeIsItsOwnInverse() {
	post := suite.createPost(suite.ivan, "Пост", suite.base)

	liked, count, err := suite.repo.ToggleLike(suite.ctx, post.ID, suite.maria.ID)
	suite.Require().NoError(err)
	suite.True(liked)
	suite.Equal(1, count)

	var likes int64
	suite.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	suite.Equal(int64(1), likes)

	liked, count, err = suite.repo.ToggleLike(suite.ctx, post.ID, suite.maria.ID)
	suite.Require().NoError(err)
	suite.False(liked)
	suite.Equal(0, count)

	suite.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	suite.Zero(likes)
	suite.Equal(0, suite.reloadPost(post.ID).LikesCount)
}

func (suite *FeedRepositoryTestSuite) TestToggleLikeCountsDistinctUsers() {
	post := suite.createPost(suite.ivan, "Пост", suite.base)

	_, _, err := suite.repo.ToggleLike(suite.ctx, post.ID, suite.maria.ID)
	suite.Require().NoError(err)
	liked, count, err := suite.repo.ToggleLike(suite.ctx, post.ID, suite.ivan.ID)
	suite.Require().NoError(err)
	suite.True(liked)
	suite.Equal(2, count)
}

func (suite *FeedRepositoryTestSuite) TestToggleLikeMissingPost() {
	_, _, err := suite.repo.ToggleLike(suite.ctx, 9999, suite.maria.ID)
	suite.ErrorIs(err, ErrPostNotFound)

	var likes int64
	suite.db.Model(&models.Like{}).Count(&likes)
	suite.Zero(likes)
}

func (suite *FeedRepositoryTestSuite) TestToggleLikeUnknownUser() {
	post := suite.createPost(suite.ivan, "Пост", suite.base)

	_, _, err := suite.repo.ToggleLike(suite.ctx, post.ID, 9999)
	suite.ErrorIs(err, ErrUserNotFound)

	var likes int64
	suite.db.Model(&models.Like{}).Count(&likes)
	suite.Zero(likes)
	suite.Equal(0, suite.reloadPost(post.ID).LikesCount)
}

func (suite *FeedRepositoryTestSuite) TestAddCommentIncrementsCounter() {
	post := suite.createPost(suite.ivan, "Пост", suite.base)

	id, err := suite.repo.AddComment(suite.ctx, post.ID, suite.maria.ID, "Молодец!")
	suite.Require().NoError(err)
	suite.NotZero(id)
	suite.Equal(1, suite.reloadPost(post.ID).CommentsCount)

	_, err = suite.repo.AddComment(suite.ctx, post.ID, suite.ivan.ID, "Спасибо")
	suite.Require().NoError(err)
	suite.Equal(2, suite.reloadPost(post.ID).CommentsCount)
}

func (suite *FeedRepositoryTestSuite) TestAddCommentMissingPost() {
	_, err := suite.repo.AddComment(suite.ctx, 9999, suite.maria.ID, "Эй")
	suite.ErrorIs(err, ErrPostNotFound)
}

func (suite *FeedRepositoryTestSuite) TestListCommentsOldestFirst() {
	post := suite.createPost(suite.ivan, "Пост", suite.base)
	other := suite.createPost(suite.ivan, "Другой", suite.base)

	suite.db.Create(&models.Comment{PostID: post.ID, UserID: suite.ivan.ID, Content: "второй", CreatedAt: suite.base.Add(2 * time.Minute)})
	suite.db.Create(&models.Comment{PostID: post.ID, UserID: suite.maria.ID, Content: "первый", CreatedAt: suite.base.Add(time.Minute)})
	suite.db.Create(&models.Comment{PostID: other.ID, UserID: suite.maria.ID, Content: "чужой", CreatedAt: suite.base})

	rows, err := suite.repo.ListComments(suite.ctx, post.ID)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("первый", rows[0].Content)
	suite.Equal("Мария Сидорова", rows[0].DisplayName)
	suite.Equal("второй", rows[1].Content)
	suite.Equal("👷", rows[1].AvatarEmoji)
}

func (suite *FeedRepositoryTestSuite) TestCounterDriftAndReconcile() {
	healthy := suite.createPost(suite.ivan, "ok", suite.base)
	drifted := suite.createPost(suite.ivan, "drift", suite.base)

	_, _, err := suite.repo.ToggleLike(suite.ctx, healthy.ID, suite.maria.ID)
	suite.Require().NoError(err)

	suite.db.Create(&models.Like{PostID: drifted.ID, UserID: suite.maria.ID})
	suite.db.Create(&models.Comment{PostID: drifted.ID, UserID: suite.maria.ID, Content: "x", CreatedAt: suite.base})
	suite.db.Model(&models.Post{}).Where("id = ?", drifted.ID).UpdateColumn("likes_count", 5)

	drift, err := suite.repo.FindCounterDrift(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(drift, 1)
	assert.Equal(suite.T(), CounterDrift{
		PostID:         drifted.ID,
		LikesCount:     5,
		ActualLikes:    1,
		CommentsCount:  0,
		ActualComments: 1,
	}, drift[0])

	fixed, err := suite.repo.ReconcileCounters(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), fixed)

	post := suite.reloadPost(drifted.ID)
	suite.Equal(1, post.LikesCount)
	suite.Equal(1, post.CommentsCount)

	drift, err = suite.repo.FindCounterDrift(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(drift)
}
