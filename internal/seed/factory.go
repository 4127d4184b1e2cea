// Package seed creates demo and test data: users, a follow mesh, threads and likes.
// It is intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"feedgraph/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds domain entities from a seeded faker. It never touches storage.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     time.Time
}

// NewFactory returns a Factory. The same seed yields the same entities.
func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{faker: gofakeit.New(seed), maxDays: maxDays, now: time.Now().UTC()}
}

// BuildUser returns an unsaved user with a fake name, unique email and avatar.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID())
	user := &models.User{
		ID:        f.faker.UUID(),
		Name:      first + " " + last,
		Email:     strings.ToLower(fmt.Sprintf("%s.%s.%d@example.test", first, last, f.faker.Number(1000, 9999))),
		Avatar:    &avatar,
		CreatedAt: f.pastTime(),
	}
	user.UpdatedAt = user.CreatedAt
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildMessage returns an unsaved message by author, created no earlier than the author.
func (f *Factory) BuildMessage(author *models.User, overrides ...func(*models.Message)) *models.Message {
	message := &models.Message{
		ID:        f.faker.UUID(),
		Content:   f.content(),
		AuthorID:  author.ID,
		CreatedAt: f.timeAfter(author.CreatedAt),
	}
	if f.faker.Number(1, 100) <= 20 {
		img := fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
		message.Image = &img
	}
	for _, override := range overrides {
		override(message)
	}
	return message
}

// BuildReply returns an unsaved reply to parent with the parent author's name snapshotted.
func (f *Factory) BuildReply(author *models.User, parent *models.Message, parentAuthor string) *models.Message {
	return f.BuildMessage(author, func(m *models.Message) {
		m.ReplyToID = &parent.ID
		m.ReplyToAuthor = &parentAuthor
		m.Image = nil
		m.CreatedAt = f.timeAfter(laterOf(parent.CreatedAt, author.CreatedAt))
	})
}

// Chance reports true with the given percentage.
func (f *Factory) Chance(pct int) bool {
	return f.faker.Number(1, 100) <= pct
}

// Pick returns a pseudo-random index in [0, n).
func (f *Factory) Pick(n int) int {
	return f.faker.Number(0, n-1)
}

func (f *Factory) content() string {
	s := f.faker.Sentence(f.faker.Number(4, 18))
	if len([]rune(s)) > 280 {
		s = string([]rune(s)[:280])
	}
	return s
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(1, f.maxDays*24*60)) * time.Minute
	return f.now.Add(-back).Truncate(time.Second)
}

func (f *Factory) timeAfter(t time.Time) time.Time {
	span := f.now.Sub(t)
	if span <= time.Minute {
		return t.Add(time.Second)
	}
	return t.Add(time.Duration(f.faker.Number(1, int(span/time.Minute))) * time.Minute).Truncate(time.Second)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
