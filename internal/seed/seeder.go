package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/zfogg/factoryfeed/internal/database"
	"github.com/zfogg/factoryfeed/internal/logger"
	"github.com/zfogg/factoryfeed/internal/models"
	"github.com/zfogg/factoryfeed/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	factories = []string{"ЗИЛ", "Уралмаш", "Кировский завод", "АвтоВАЗ", "Магнитка", "ГАЗ", "Ижсталь"}
	emojis    = []string{"👷", "👩‍🔧", "👨‍🏭", "👩‍🏭", "🧑‍🔧", "⚙️", "🔧"}
	badges    = []string{"Ударник труда", "Новатор", "Наставник", "Лучший по профессии", "Рационализатор", "Ветеран цеха"}
	posts     = []string{
		"Смена закрыта, план выполнен на %d%%",
		"Запустили новую линию на участке №%d",
		"Бригада отработала %d дней без брака",
		"Сегодня наставлял %d новичков",
		"Освоили станок с ЧПУ за %d смен",
	}
	comments = []string{"Молодцы!", "Так держать!", "Поздравляю!", "Отличная работа", "Гордимся!", "Вот это результат"}
)

// Counts sets how many rows of each kind Seed creates
type Counts struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
}

// Validate rejects negative counts
func (c Counts) Validate() error {
	for name, n := range map[string]int{"users": c.Users, "posts": c.Posts, "likes": c.Likes, "comments": c.Comments} {
		if n < 0 {
			return fmt.Errorf("%s count must not be negative, got %d", name, n)
		}
	}
	return nil
}

// DefaultCounts is a small but lively feed
var DefaultCounts = Counts{Users: 20, Posts: 60, Likes: 200, Comments: 150}

// Result reports what Seed inserted
type Result struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
}

// Seeder handles database seeding operations
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSeeder creates a seeder. A zero seed picks a time-based one.
func NewSeeder(db *gorm.DB, seed uint64) *Seeder {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Seeder{
		db:    db,
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// Seed fills the feed tables in one transaction. Stored counters are rebuilt
// from the inserted likes and comments before commit.
func (s *Seeder) Seed(ctx context.Context, counts Counts) (*Result, error) {
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	result := &Result{}

	err := database.Scoped(ctx, s.db, func(tx *gorm.DB) error {
		logger.Log.Info("Creating users...", zap.Int("count", counts.Users))
		users, err := s.seedUsers(tx, counts.Users)
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		result.Users = len(users)
		if len(users) == 0 {
			return nil
		}

		logger.Log.Info("Creating posts...", zap.Int("count", counts.Posts))
		feed, err := s.seedPosts(tx, users, counts.Posts)
		if err != nil {
			return fmt.Errorf("failed to seed posts: %w", err)
		}
		result.Posts = len(feed)
		if len(feed) == 0 {
			return nil
		}

		logger.Log.Info("Creating likes...", zap.Int("count", counts.Likes))
		if result.Likes, err = s.seedLikes(tx, users, feed, counts.Likes); err != nil {
			return fmt.Errorf("failed to seed likes: %w", err)
		}

		logger.Log.Info("Creating comments...", zap.Int("count", counts.Comments))
		if result.Comments, err = s.seedComments(tx, users, feed, counts.Comments); err != nil {
			return fmt.Errorf("failed to seed comments: %w", err)
		}

		if _, err := repository.NewFeedRepository(tx).ReconcileCounters(ctx); err != nil {
			return fmt.Errorf("failed to rebuild counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Seeding completed",
		zap.Int("users", result.Users),
		zap.Int("posts", result.Posts),
		zap.Int("likes", result.Likes),
		zap.Int("comments", result.Comments),
	)
	return result, nil
}

func (s *Seeder) seedUsers(tx *gorm.DB, n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			DisplayName: s.faker.Name(),
			Factory:     s.faker.RandomString(factories),
			AvatarEmoji: s.faker.RandomString(emojis),
			CreatedAt:   s.faker.DateRange(s.now().AddDate(-1, 0, 0), s.now().AddDate(0, 0, -30)),
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)

		for _, badge := range s.pick(badges, s.faker.Number(0, 3)) {
			if err := tx.Create(&models.UserBadge{UserID: user.ID, BadgeName: badge}).Error; err != nil {
				return nil, err
			}
		}
		for j := s.faker.Number(0, 2); j > 0; j-- {
			record := fmt.Sprintf("%d%% нормы за %s", s.faker.Number(110, 250), s.faker.MonthString())
			if err := tx.Create(&models.UserRecord{UserID: user.ID, RecordText: record}).Error; err != nil {
				return nil, err
			}
		}
	}
	return users, nil
}

func (s *Seeder) seedPosts(tx *gorm.DB, users []models.User, n int) ([]models.Post, error) {
	feed := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		post := models.Post{
			UserID:    author.ID,
			Content:   fmt.Sprintf(s.faker.RandomString(posts), s.faker.Number(2, 150)),
			CreatedAt: s.faker.DateRange(s.now().AddDate(0, 0, -14), s.now()),
		}
		if s.faker.Number(1, 10) <= 3 {
			badge := s.faker.RandomString(badges)
			post.AchievementBadge = &badge
		}
		if err := tx.Create(&post).Error; err != nil {
			return nil, err
		}
		feed = append(feed, post)
	}
	return feed, nil
}

// seedLikes inserts up to n distinct (post, user) likes
func (s *Seeder) seedLikes(tx *gorm.DB, users []models.User, feed []models.Post, n int) (int, error) {
	if limit := len(users) * len(feed); n > limit {
		n = limit
	}

	type pair struct{ post, user int64 }
	seen := make(map[pair]struct{}, n)
	for len(seen) < n {
		p := pair{
			post: feed[s.faker.Number(0, len(feed)-1)].ID,
			user: users[s.faker.Number(0, len(users)-1)].ID,
		}
		if _, dup := seen[p]; dup {
			continue
		}
		if err := tx.Create(&models.Like{PostID: p.post, UserID: p.user}).Error; err != nil {
			return 0, err
		}
		seen[p] = struct{}{}
	}
	return len(seen), nil
}

func (s *Seeder) seedComments(tx *gorm.DB, users []models.User, feed []models.Post, n int) (int, error) {
	for i := 0; i < n; i++ {
		post := feed[s.faker.Number(0, len(feed)-1)]
		comment := models.Comment{
			PostID:    post.ID,
			UserID:    users[s.faker.Number(0, len(users)-1)].ID,
			Content:   s.faker.RandomString(comments),
			CreatedAt: s.faker.DateRange(post.CreatedAt, s.now()),
		}
		if err := tx.Create(&comment).Error; err != nil {
			return 0, err
		}
	}
	return n, nil
}

// pick returns up to k distinct entries of from
func (s *Seeder) pick(from []string, k int) []string {
	shuffled := append([]string(nil), from...)
	s.faker.ShuffleStrings(shuffled)
	if k > len(shuffled) {
		k = len(shuffled)
	}
	return shuffled[:k]
}
