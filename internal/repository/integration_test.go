//go:build integration

package repository_test

import (
	"context"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policyscope/policyscope/internal/model"
	"github.com/policyscope/policyscope/internal/repository"
	"github.com/policyscope/policyscope/internal/testutil"
)

// newIntegrationStore connects to the server named by TEST_DB_* and
// migrates a clean schema. Run with:
//
//	TEST_DB_DRIVER=mysql TEST_DB_HOST=127.0.0.1 TEST_DB_USER=root TEST_DB_NAME=policy_test \
//	  go test -tags integration ./internal/repository/...
func newIntegrationStore(t *testing.T, mode repository.NameSearchMode) *repository.Store {
	t.Helper()

	driver := testutil.RequireEnv(t, "TEST_DB_DRIVER")
	host := testutil.RequireEnv(t, "TEST_DB_HOST")
	name := testutil.RequireEnv(t, "TEST_DB_NAME")

	port, _ := strconv.Atoi(envOr("TEST_DB_PORT", "0"))
	params, err := url.ParseQuery(envOr("TEST_DB_PARAMS", ""))
	require.NoError(t, err)

	cfg := repository.Config{
		Driver: driver,
		Options: repository.Options{
			Host:           host,
			Port:           port,
			User:           envOr("TEST_DB_USER", ""),
			Password:       envOr("TEST_DB_PASSWORD", ""),
			Database:       name,
			Params:         params,
			ConnectTimeout: 5 * time.Second,
		},
		NameSearchMode: mode,
		PingTimeout:    5 * time.Second,
	}

	store := testutil.NewStore(t, cfg)

	provider, err := store.NewMigrator(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = provider.DownTo(context.Background(), 0)
	})
	return store
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func TestIntegrationStore_Lookups(t *testing.T) {
	store := newIntegrationStore(t, repository.NameSearchInsensitive)
	seed(t, store)
	ctx := context.Background()

	users, err := store.GetUsersByID(ctx, 42)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@b.com", users[0].Email)
	assert.Equal(t, "1980-06-15", users[0].DateOfBirth.String())

	found, err := store.SearchUsersByName(ctx, "love")
	require.NoError(t, err)
	require.Len(t, found, 1)

	literal, err := store.SearchUsersByName(ctx, "%")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, int64(9), literal[0].UserID)

	policies, err := store.GetPoliciesByNumber(ctx, "POL-002")
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, model.PolicyStatusExpired, policies[0].PolicyStatus)
	assert.Equal(t, "2024-01-01", policies[0].PolicyStartDate.String())

	byType, err := store.GetPoliciesByType(ctx, model.PolicyTypeAuto)
	require.NoError(t, err)
	assert.Len(t, byType, 2)
}
