//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBTypes = []string{config.SqliteDbType, config.PostgresDbType}

func TestKeyPairRepository_Create(t *testing.T) {
	for _, dbType := range testDBTypes {
		t.Run(dbType, func(t *testing.T) {
			ctx := SetupTestDB(t, dbType)
			keyPair := CreateTestKeyPair(t, uuid.NewString(), 2048)

			require.NoError(t, ctx.KeyPairRepo.Create(context.Background(), keyPair))

			var stored models.KeyPairModel
			require.NoError(t, ctx.DB.First(&stored, "id = ?", keyPair.ID).Error)
			assert.Equal(t, keyPair.PublicKey, stored.PublicKey)
			assert.Equal(t, keyPair.PrivateKey, stored.PrivateKey)
		})
	}
}

func TestKeyPairRepository_CreateRejectsInvalid(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	keyPair := CreateTestKeyPair(t, uuid.NewString(), 2048)
	keyPair.KeySize = 2047

	err := ctx.KeyPairRepo.Create(context.Background(), keyPair)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: KeySize, Tag: rsa_keysize")
}

func TestKeyPairRepository_GetByID(t *testing.T) {
	for _, dbType := range testDBTypes {
		t.Run(dbType, func(t *testing.T) {
			ctx := SetupTestDB(t, dbType)
			keyPair := CreateTestKeyPair(t, uuid.NewString(), 1024)
			require.NoError(t, ctx.KeyPairRepo.Create(context.Background(), keyPair))

			fetched, err := ctx.KeyPairRepo.GetByID(context.Background(), keyPair.ID)
			require.NoError(t, err)
			assert.Equal(t, keyPair.ID, fetched.ID)
			assert.Equal(t, keyPair.KeySize, fetched.KeySize)
			assert.Equal(t, keyPair.UserID, fetched.UserID)

			_, err = ctx.KeyPairRepo.GetByID(context.Background(), uuid.NewString())
			assert.ErrorIs(t, err, rsakeys.ErrKeyNotFound)
		})
	}
}

func TestKeyPairRepository_List(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	userID := uuid.NewString()

	older := CreateTestKeyPair(t, userID, 2048)
	older.DateTimeCreated = time.Now().UTC().Add(-time.Hour)
	newer := CreateTestKeyPair(t, userID, 1024)
	foreign := CreateTestKeyPair(t, uuid.NewString(), 2048)

	for _, k := range []*rsakeys.KeyPairMeta{older, newer, foreign} {
		require.NoError(t, ctx.KeyPairRepo.Create(context.Background(), k))
	}

	t.Run("Defaults", func(t *testing.T) {
		keyPairs, err := ctx.KeyPairRepo.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, keyPairs, 3)
	})

	t.Run("FilterByUserSortedAscending", func(t *testing.T) {
		query := rsakeys.NewKeyPairQuery()
		query.UserID = userID
		query.SortOrder = "asc"

		keyPairs, err := ctx.KeyPairRepo.List(context.Background(), query)
		require.NoError(t, err)
		require.Len(t, keyPairs, 2)
		assert.Equal(t, older.ID, keyPairs[0].ID)
		assert.Equal(t, newer.ID, keyPairs[1].ID)
	})

	t.Run("FilterByKeySize", func(t *testing.T) {
		query := rsakeys.NewKeyPairQuery()
		query.KeySize = 2048

		keyPairs, err := ctx.KeyPairRepo.List(context.Background(), query)
		require.NoError(t, err)
		assert.Len(t, keyPairs, 2)
	})

	t.Run("Pagination", func(t *testing.T) {
		query := rsakeys.NewKeyPairQuery()
		query.Limit = 1
		query.Offset = 1

		keyPairs, err := ctx.KeyPairRepo.List(context.Background(), query)
		require.NoError(t, err)
		assert.Len(t, keyPairs, 1)
	})

	t.Run("InvalidSortColumn", func(t *testing.T) {
		query := rsakeys.NewKeyPairQuery()
		query.SortBy = "private_key; DROP TABLE key_pairs"

		_, err := ctx.KeyPairRepo.List(context.Background(), query)
		assert.Error(t, err)
	})
}

func TestKeyPairRepository_DeleteByID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	keyPair := CreateTestKeyPair(t, uuid.NewString(), 2048)
	require.NoError(t, ctx.KeyPairRepo.Create(context.Background(), keyPair))

	require.NoError(t, ctx.KeyPairRepo.DeleteByID(context.Background(), keyPair.ID))

	_, err := ctx.KeyPairRepo.GetByID(context.Background(), keyPair.ID)
	assert.ErrorIs(t, err, rsakeys.ErrKeyNotFound)

	err = ctx.KeyPairRepo.DeleteByID(context.Background(), keyPair.ID)
	assert.ErrorIs(t, err, rsakeys.ErrKeyNotFound)
}
