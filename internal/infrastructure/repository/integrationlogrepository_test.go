package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/miasolution2024/omniconnect/internal/domain/integration"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
	apperrors "github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

func setupLogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.IntegrationLogModel{})
	require.NoError(t, err)

	return db
}

func TestIntegrationLogRepository_Append(t *testing.T) {
	db := setupLogTestDB(t)
	repo := NewIntegrationLogRepository(db, logger.NewLogger())
	ctx := context.Background()

	userID := uint(7)
	entry, err := integration.NewLog(integration.LogLevelError, "facebook token exchange failed", "stack detail", &userID)
	require.NoError(t, err)
	entry.WithEcho(
		json.RawMessage(`{"code":"auth-code"}`),
		json.RawMessage(`{"error":{"message":"Invalid verification code format.","code":100}}`),
	)

	require.NoError(t, repo.Append(ctx, entry))
	assert.NotZero(t, entry.ID)

	found, err := repo.GetBySID(ctx, entry.SID)
	require.NoError(t, err)
	assert.Equal(t, integration.LogLevelError, found.Level)
	assert.Equal(t, "facebook token exchange failed", found.Message)
	assert.Equal(t, "stack detail", found.Context)
	require.NotNil(t, found.UserID)
	assert.Equal(t, uint(7), *found.UserID)
	assert.JSONEq(t, `{"code":"auth-code"}`, string(found.Request))
	assert.JSONEq(t, `{"error":{"message":"Invalid verification code format.","code":100}}`, string(found.Response))
}

func TestIntegrationLogRepository_GetBySID_NotFound(t *testing.T) {
	db := setupLogTestDB(t)
	repo := NewIntegrationLogRepository(db, logger.NewLogger())

	_, err := repo.GetBySID(context.Background(), "ilog_nonexistent")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestIntegrationLogRepository_List(t *testing.T) {
	db := setupLogTestDB(t)
	repo := NewIntegrationLogRepository(db, logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry, err := integration.NewLog(integration.LogLevelInfo, "page linked", "", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, entry))
	}
	errEntry, err := integration.NewLog(integration.LogLevelError, "webhook subscription failed", "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, errEntry))

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		entries, total, err := repo.List(ctx, integration.LogListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, entries, 4)
		assert.Equal(t, errEntry.SID, entries[0].SID)
	})

	t.Run("filter by level", func(t *testing.T) {
		level := integration.LogLevelError
		entries, total, err := repo.List(ctx, integration.LogListFilter{Level: &level})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "webhook subscription failed", entries[0].Message)
	})

	t.Run("pagination", func(t *testing.T) {
		entries, total, err := repo.List(ctx, integration.LogListFilter{Page: 2, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, entries, 1)
	})
}
