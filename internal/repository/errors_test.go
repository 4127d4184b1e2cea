package repository

import (
	"errors"
	"fmt"
	"testing"

	"feedgraph/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pg fk violation", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite unique", errors.New("UNIQUE constraint failed: user_follows.follower_id, user_follows.following_id"), true},
		{"other", errors.New("connection reset by peer"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}

func TestIsForeignKeyError(t *testing.T) {
	assert.False(t, isForeignKeyError(nil))
	assert.True(t, isForeignKeyError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, isForeignKeyError(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isForeignKeyError(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isForeignKeyError(errors.New("connection reset by peer")))
}

func TestStorageError(t *testing.T) {
	assert.NoError(t, storageError(nil))

	notFound := models.NewUserNotFoundError("u1")
	assert.Same(t, notFound, storageError(notFound))

	err := storageError(errors.New("dial tcp: refused"))
	assert.Equal(t, models.CodeStorageUnavailable, models.ErrorCode(err))

	err = storageError(&pgconn.PgError{Code: "23503"})
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
