// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/policyscope/policyscope/internal/model"
	"github.com/policyscope/policyscope/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SQLiteConfig returns a store config for a fresh SQLite file inside the
// test's temp dir. A file is used instead of :memory: so the database
// survives the store dropping and reopening its connection.
func SQLiteConfig(t testing.TB) repository.Config {
	t.Helper()
	return repository.Config{
		Driver: "sqlite3",
		Options: repository.Options{
			Database: filepath.Join(t.TempDir(), "policyscope.db"),
			Params:   url.Values{"_foreign_keys": {"on"}},
		},
		PingTimeout: time.Second,
	}
}

// NewSQLiteStore opens a migrated SQLite store that is closed on cleanup.
func NewSQLiteStore(t testing.TB, mode repository.NameSearchMode) *repository.Store {
	t.Helper()

	cfg := SQLiteConfig(t)
	cfg.NameSearchMode = mode
	return NewStore(t, cfg)
}

// NewStore opens and migrates a store for cfg, failing the test on error.
func NewStore(t testing.TB, cfg repository.Config) *repository.Store {
	t.Helper()
	ctx := context.Background()

	store, err := repository.New(ctx, cfg, DiscardLogger(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate store: %v", err)
	}
	return store
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with sensible defaults.
func NewTestUser(id int64, first, last string) model.User {
	dob := model.NewDate(time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC))
	start := model.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	end := model.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	premium := 1200.0
	return model.User{
		UserID:          id,
		FirstName:       first,
		LastName:        last,
		Email:           fmt.Sprintf("user%d@example.com", id),
		DateOfBirth:     &dob,
		PolicyNumber:    fmt.Sprintf("POL-%03d", id),
		PolicyType:      string(model.PolicyTypeAuto),
		PremiumAmount:   &premium,
		PolicyStartDate: &start,
		PolicyEndDate:   &end,
	}
}

// NewTestPolicy creates a policy with sensible defaults.
func NewTestPolicy(id, userID int64, number string) model.Policy {
	coverage := 50000.0
	return model.Policy{
		PolicyID:         id,
		UserID:           userID,
		PolicyNumber:     number,
		PolicyType:       model.PolicyTypeAuto,
		PolicyStatus:     model.PolicyStatusActive,
		PremiumAmount:    1200,
		CoverageAmount:   &coverage,
		PolicyStartDate:  model.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		PolicyEndDate:    model.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		PaymentFrequency: "Monthly",
	}
}

// InsertUser writes u through the store's connection.
func InsertUser(t testing.TB, store *repository.Store, u model.User) {
	t.Helper()
	exec(t, store, `INSERT INTO insurance_users (
		user_id, first_name, last_name, email, phone, date_of_birth,
		policy_number, policy_type, premium_amount, policy_start_date, policy_end_date,
		address, city, state, zip_code, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.UserID, u.FirstName, u.LastName, u.Email, u.Phone, u.DateOfBirth,
		u.PolicyNumber, u.PolicyType, u.PremiumAmount, u.PolicyStartDate, u.PolicyEndDate,
		u.Address, u.City, u.State, u.ZipCode, u.CreatedAt, u.UpdatedAt,
	)
}

// InsertPolicy writes p through the store's connection.
func InsertPolicy(t testing.TB, store *repository.Store, p model.Policy) {
	t.Helper()
	exec(t, store, `INSERT INTO policies_summ (
		policy_id, user_id, policy_number, policy_type, policy_status,
		premium_amount, coverage_amount, deductible_amount, policy_start_date, policy_end_date,
		payment_frequency, agent_name, agent_phone, policy_description, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PolicyID, p.UserID, p.PolicyNumber, string(p.PolicyType), string(p.PolicyStatus),
		p.PremiumAmount, p.CoverageAmount, p.DeductibleAmount, p.PolicyStartDate, p.PolicyEndDate,
		p.PaymentFrequency, p.AgentName, p.AgentPhone, p.PolicyDescription, p.CreatedAt, p.UpdatedAt,
	)
}

func exec(t testing.TB, store *repository.Store, query string, args ...any) {
	t.Helper()
	ctx := context.Background()

	db, err := store.Conn(ctx)
	if err != nil {
		t.Fatalf("store connection: %v", err)
	}
	if _, err := db.ExecContext(ctx, store.Driver().Rebind(query), args...); err != nil {
		t.Fatalf("insert fixture: %v", err)
	}
}
