package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/miasolution2024/omniconnect/internal/domain/channel"
	"github.com/miasolution2024/omniconnect/internal/infrastructure/persistence/models"
	apperrors "github.com/miasolution2024/omniconnect/internal/shared/errors"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
)

func setupChannelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.OmniChannelModel{})
	require.NoError(t, err)

	return db
}

func createTestChannel(t *testing.T, source channel.Source, pageID, name string) *channel.Channel {
	ch, err := channel.NewChannel(source, pageID, name, "token-"+pageID)
	require.NoError(t, err)
	return ch
}

func TestChannelRepository_Upsert(t *testing.T) {
	db := setupChannelTestDB(t)
	repo := NewChannelRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("insert new channel", func(t *testing.T) {
		ch := createTestChannel(t, channel.SourceFacebook, "111", "Coffee Shop")

		err := repo.Upsert(ctx, ch)
		assert.NoError(t, err)
		assert.NotZero(t, ch.ID)

		found, err := repo.GetByPageID(ctx, channel.SourceFacebook, "111")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, ch.SID, found.SID)
		assert.Equal(t, "Coffee Shop", found.Name)
		assert.True(t, found.Enabled)
	})

	t.Run("relink updates tokens and keeps sid", func(t *testing.T) {
		first := createTestChannel(t, channel.SourceFacebook, "222", "Flower Shop")
		require.NoError(t, repo.Upsert(ctx, first))

		relinked := createTestChannel(t, channel.SourceFacebook, "222", "Flower Shop Renamed")
		relinked.AccessToken = "fresh-token"
		require.NoError(t, repo.Upsert(ctx, relinked))

		found, err := repo.GetByPageID(ctx, channel.SourceFacebook, "222")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, first.SID, found.SID)
		assert.Equal(t, "Flower Shop Renamed", found.Name)
		assert.Equal(t, "fresh-token", found.AccessToken)

		var count int64
		require.NoError(t, db.Model(&models.OmniChannelModel{}).Where("page_id = ?", "222").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same page id on different sources stays separate", func(t *testing.T) {
		fb := createTestChannel(t, channel.SourceFacebook, "333", "FB Page")
		ig := createTestChannel(t, channel.SourceInstagram, "333", "IG Account")

		require.NoError(t, repo.Upsert(ctx, fb))
		require.NoError(t, repo.Upsert(ctx, ig))

		foundFB, err := repo.GetByPageID(ctx, channel.SourceFacebook, "333")
		require.NoError(t, err)
		foundIG, err := repo.GetByPageID(ctx, channel.SourceInstagram, "333")
		require.NoError(t, err)
		assert.Equal(t, "FB Page", foundFB.Name)
		assert.Equal(t, "IG Account", foundIG.Name)
	})
}

func TestChannelRepository_GetByPageID_NotLinked(t *testing.T) {
	db := setupChannelTestDB(t)
	repo := NewChannelRepository(db, logger.NewLogger())

	found, err := repo.GetByPageID(context.Background(), channel.SourceZalo, "missing")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestChannelRepository_GetBySID(t *testing.T) {
	db := setupChannelTestDB(t)
	repo := NewChannelRepository(db, logger.NewLogger())
	ctx := context.Background()

	ch := createTestChannel(t, channel.SourceZalo, "444", "OA")
	require.NoError(t, repo.Upsert(ctx, ch))

	found, err := repo.GetBySID(ctx, ch.SID)
	require.NoError(t, err)
	assert.Equal(t, "444", found.PageID)

	_, err = repo.GetBySID(ctx, "ch_nonexistent")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestChannelRepository_Update(t *testing.T) {
	db := setupChannelTestDB(t)
	repo := NewChannelRepository(db, logger.NewLogger())
	ctx := context.Background()

	ch := createTestChannel(t, channel.SourceFacebook, "555", "Shop")
	require.NoError(t, repo.Upsert(ctx, ch))

	ch.SetEnabled(false)
	expiry := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	ch.ExpiredDate = &expiry
	require.NoError(t, repo.Update(ctx, ch))

	found, err := repo.GetByPageID(ctx, channel.SourceFacebook, "555")
	require.NoError(t, err)
	assert.False(t, found.Enabled)
	require.NotNil(t, found.ExpiredDate)
	assert.WithinDuration(t, expiry, *found.ExpiredDate, time.Second)

	t.Run("missing id rejected", func(t *testing.T) {
		orphan := createTestChannel(t, channel.SourceFacebook, "666", "Orphan")
		err := repo.Update(ctx, orphan)
		assert.True(t, apperrors.IsValidationError(err))
	})
}

func TestChannelRepository_List(t *testing.T) {
	db := setupChannelTestDB(t)
	repo := NewChannelRepository(db, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, createTestChannel(t, channel.SourceFacebook, "1", "A")))
	require.NoError(t, repo.Upsert(ctx, createTestChannel(t, channel.SourceFacebook, "2", "B")))
	require.NoError(t, repo.Upsert(ctx, createTestChannel(t, channel.SourceZalo, "3", "C")))

	disabled := createTestChannel(t, channel.SourceInstagram, "4", "D")
	disabled.SetEnabled(false)
	require.NoError(t, repo.Upsert(ctx, disabled))

	t.Run("no filter returns everything", func(t *testing.T) {
		channels, total, err := repo.List(ctx, channel.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, channels, 4)
	})

	t.Run("filter by source", func(t *testing.T) {
		source := channel.SourceFacebook
		channels, total, err := repo.List(ctx, channel.ListFilter{Source: &source})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, channels, 2)
	})

	t.Run("filter by enabled", func(t *testing.T) {
		enabled := false
		channels, total, err := repo.List(ctx, channel.ListFilter{Enabled: &enabled})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, channels, 1)
		assert.Equal(t, "D", channels[0].Name)
	})

	t.Run("pagination caps the page size", func(t *testing.T) {
		channels, total, err := repo.List(ctx, channel.ListFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, channels, 2)
	})
}
