package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feedgraph/internal/middleware"
	"feedgraph/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options tunes the generated graph. Percentages are 0-100.
type Options struct {
	Users           int   `yaml:"users"`
	MessagesPerUser int   `yaml:"messages_per_user"`
	FollowPercent   int   `yaml:"follow_percent"`
	ReplyPercent    int   `yaml:"reply_percent"`
	LikePercent     int   `yaml:"like_percent"`
	MaxDays         int   `yaml:"max_days"`
	Seed            int64 `yaml:"seed"`
	DryRun          bool  `yaml:"-"`
}

// Result counts what a run created.
type Result struct {
	Users    int
	Follows  int
	Messages int
	Replies  int
	Likes    int
}

// Seeder persists generated data in batches.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

const batchSize = 200

// NewSeeder returns a Seeder. A zero Seed uses the current time.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Seeder{db: db, opts: opts, factory: NewFactory(opts.Seed, opts.MaxDays)}
}

// ClearAll deletes every row in dependency order.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if s.opts.DryRun {
		middleware.Logger.Info("[dry-run] ClearAll skipped")
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.MessageLike{}, &models.Message{}, &models.UserFollow{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run seeds users, the follow mesh, messages with replies, and likes.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	users, err := s.SeedUsers(ctx, s.opts.Users)
	if err != nil {
		return nil, err
	}
	res.Users = len(users)

	if res.Follows, err = s.SeedFollowMesh(ctx, users); err != nil {
		return nil, err
	}

	messages, replies, err := s.SeedMessages(ctx, users)
	if err != nil {
		return nil, err
	}
	res.Messages, res.Replies = len(messages), replies

	if res.Likes, err = s.SeedLikes(ctx, users, messages); err != nil {
		return nil, err
	}

	middleware.Logger.Info("seed complete",
		slog.Int("users", res.Users),
		slog.Int("follows", res.Follows),
		slog.Int("messages", res.Messages),
		slog.Int("replies", res.Replies),
		slog.Int("likes", res.Likes),
		slog.Bool("dry_run", s.opts.DryRun),
	)
	return res, nil
}

// SeedUsers creates n users.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, s.factory.BuildUser())
	}
	if err := s.insert(ctx, &users, len(users)); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

// SeedFollowMesh adds each directed pair with FollowPercent probability. Self
// edges are never generated.
func (s *Seeder) SeedFollowMesh(ctx context.Context, users []*models.User) (int, error) {
	var edges []*models.UserFollow
	for _, a := range users {
		for _, b := range users {
			if a.ID == b.ID || !s.factory.Chance(s.opts.FollowPercent) {
				continue
			}
			edges = append(edges, &models.UserFollow{
				ID:          s.factory.faker.UUID(),
				FollowerID:  a.ID,
				FollowingID: b.ID,
				CreatedAt:   s.factory.timeAfter(laterOf(a.CreatedAt, b.CreatedAt)),
			})
		}
	}
	if err := s.insert(ctx, &edges, len(edges)); err != nil {
		return 0, fmt.Errorf("seed follows: %w", err)
	}
	return len(edges), nil
}

// SeedMessages creates MessagesPerUser top-level messages per user, then answers a
// ReplyPercent share of them with one reply from another user.
func (s *Seeder) SeedMessages(ctx context.Context, users []*models.User) ([]*models.Message, int, error) {
	if len(users) == 0 {
		return nil, 0, nil
	}
	var messages []*models.Message
	for _, u := range users {
		for i := 0; i < s.opts.MessagesPerUser; i++ {
			messages = append(messages, s.factory.BuildMessage(u))
		}
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	roots := len(messages)
	for i := 0; i < roots && len(users) > 1; i++ {
		parent := messages[i]
		if !s.factory.Chance(s.opts.ReplyPercent) {
			continue
		}
		replier := users[s.factory.Pick(len(users))]
		if replier.ID == parent.AuthorID {
			continue
		}
		messages = append(messages, s.factory.BuildReply(replier, parent, names[parent.AuthorID]))
	}

	if err := s.insert(ctx, &messages, len(messages)); err != nil {
		return nil, 0, fmt.Errorf("seed messages: %w", err)
	}
	return messages, len(messages) - roots, nil
}

// SeedLikes lets every user like each message with LikePercent probability.
func (s *Seeder) SeedLikes(ctx context.Context, users []*models.User, messages []*models.Message) (int, error) {
	var likes []*models.MessageLike
	for _, u := range users {
		for _, m := range messages {
			if !s.factory.Chance(s.opts.LikePercent) {
				continue
			}
			likes = append(likes, &models.MessageLike{
				ID:        s.factory.faker.UUID(),
				UserID:    u.ID,
				MessageID: m.ID,
				CreatedAt: s.factory.timeAfter(laterOf(m.CreatedAt, u.CreatedAt)),
			})
		}
	}
	if err := s.insert(ctx, &likes, len(likes)); err != nil {
		return 0, fmt.Errorf("seed likes: %w", err)
	}
	return len(likes), nil
}

func (s *Seeder) insert(ctx context.Context, rows any, n int) error {
	if n == 0 {
		return nil
	}
	if s.opts.DryRun {
		middleware.Logger.Info("[dry-run] insert skipped", slog.String("type", fmt.Sprintf("%T", rows)), slog.Int("rows", n))
		return nil
	}
	return s.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(rows, batchSize).Error
}
