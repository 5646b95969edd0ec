package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/llamacto/llama-gin/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *UserRepository {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.Driver = database.DriverSQLite
	cfg.DSN = ":memory:"

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	require.NoError(t, database.AutoMigrate(db))

	return NewUserRepository(db)
}

func TestInsertAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.Insert(ctx, "Alice@Example.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsSuperuser)

	byEmail, err := repo.FindByEmail(ctx, "  ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.HashedPassword)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestFindMissingReturnsNil(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestInsertDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "bob@example.com", "h1")
	require.NoError(t, err)

	_, err = repo.Insert(ctx, "BOB@example.com", "h2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestConcurrentInsertKeepsOneRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, "race@example.com", "hash")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrDuplicateEmail):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)

	users, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListPaginates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Insert(ctx, fmt.Sprintf("user%d@example.com", i), "hash")
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "user1@example.com", page[0].Email)
	assert.Equal(t, "user2@example.com", page[1].Email)

	tail, err := repo.List(ctx, 4, 10)
	require.NoError(t, err)
	assert.Len(t, tail, 1)
}

func TestSetActive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.Insert(ctx, "carol@example.com", "hash")
	require.NoError(t, err)

	updated, err := repo.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.IsActive)

	again, err := repo.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.False(t, again.IsActive)

	missing, err := repo.SetActive(ctx, 12345, true)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
