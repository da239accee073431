//go:build integration
// +build integration

package persistence

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/config"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// PostgresDSNEnv names the variable holding an admin DSN for PostgreSQL tests.
const PostgresDSNEnv = "RSA_VAULT_TEST_POSTGRES_DSN"

// TestContext holds test database and repositories
type TestContext struct {
	DB          *gorm.DB
	KeyPairRepo rsakeys.KeyPairRepository
}

// SetupTestDB opens a fresh database of dbType, migrates it and registers cleanup.
// PostgreSQL tests are skipped unless PostgresDSNEnv is set.
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanup := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{Type: config.SqliteDbType, DSN: ":memory:"}

	case config.PostgresDbType:
		adminDSN := os.Getenv(PostgresDSNEnv)
		if adminDSN == "" {
			t.Skipf("%s not set", PostgresDSNEnv)
		}
		name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{Type: config.PostgresDbType, DSN: adminDSN, Name: name}
		cleanup = func() { _ = DropDatabase(adminDSN+" dbname=postgres", name) }

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")
	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanup()
	})

	require.NoError(t, AutoMigrate(db))

	repo, err := NewGormKeyPairRepository(db, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	return &TestContext{DB: db, KeyPairRepo: repo}
}

// CreateTestKeyPair returns valid key pair metadata owned by userID.
func CreateTestKeyPair(t *testing.T, userID string, keySize uint32) *rsakeys.KeyPairMeta {
	t.Helper()

	return &rsakeys.KeyPairMeta{
		ID:              uuid.NewString(),
		KeySize:         keySize,
		ExponentPolicy:  rsakeys.ExponentPolicyDefault,
		PublicKey:       "rsa-vault 9668f701\n",
		PrivateKey:      "-----BEGIN RSA-VAULT PRIVATE KEY-----\n9668f701\n147b7f71\n-----END RSA-VAULT PRIVATE KEY-----\n",
		UserID:          userID,
		DateTimeCreated: time.Now().UTC(),
	}
}
