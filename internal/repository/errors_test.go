package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"socialapi/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"Deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), models.CodeTimeout},
		{"App Error Passes Through", models.NewForbiddenError("no"), models.CodeForbidden},
		{"Other", errors.New("connection reset"), models.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, models.HasCode(wrapDBError(tt.err), tt.code))
		})
	}
	assert.NoError(t, wrapDBError(nil))
}

func TestConstraintClassifiers(t *testing.T) {
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: votes.user_id, votes.post_id")))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueConstraintError(nil))

	assert.True(t, isForeignKeyError(gorm.ErrForeignKeyViolated))
	assert.True(t, isForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyError(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isForeignKeyError(errors.New("boom")))
}
