package implementation

import (
	"context"
	"log"
	"os"
	"testing"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/model"
	"forge-ai-be/internal/repository/contract"
	"forge-ai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a reachable Postgres; skipped otherwise.
func integrationDB(t *testing.T) *SessionRepositoryImpl {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, gormDB.AutoMigrate(&model.ForgeSession{}))

	return NewSessionRepository(gormDB).(*SessionRepositoryImpl)
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := integrationDB(t)
	ctx := context.Background()
	forgeId := "it-" + uuid.NewString()

	// No row yet
	found, err := repo.FindByForgeId(ctx, forgeId)
	assert.NoError(t, err)
	assert.Nil(t, found)

	// Create and read back
	session := entity.NewDefaultSession()
	require.NoError(t, repo.Create(ctx, forgeId, session))

	found, err = repo.FindByForgeId(ctx, forgeId)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, session.Goal, found.Goal)
	assert.Len(t, found.Roles, 2)

	// Conditional save bumps the version
	found.AddContribution("1", "integration test contribution")
	require.NoError(t, repo.Save(ctx, forgeId, found))
	assert.Equal(t, int64(1), found.Version)

	// Stale writer loses
	stale := entity.NewDefaultSession()
	stale.Version = 0
	err = repo.Save(ctx, forgeId, stale)
	assert.ErrorIs(t, err, contract.ErrVersionConflict)

	// Replace resets unconditionally
	require.NoError(t, repo.Replace(ctx, forgeId, entity.NewDefaultSession()))
	found, err = repo.FindByForgeId(ctx, forgeId)
	require.NoError(t, err)
	assert.Empty(t, found.Contributions)
}
