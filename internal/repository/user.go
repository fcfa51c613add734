package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/policyscope/policyscope/internal/model"
)

const userColumns = `
	user_id, first_name, last_name, email, phone, date_of_birth,
	policy_number, policy_type, premium_amount, policy_start_date, policy_end_date,
	address, city, state, zip_code, created_at, updated_at`

// likeEscape is the ESCAPE character for name searches. A backslash would
// need different quoting in MySQL and Postgres string literals.
const likeEscape = "!"

// GetUsersByID returns the users whose user_id equals id.
func (s *Store) GetUsersByID(ctx context.Context, id int64) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM insurance_users WHERE user_id = ?`

	users, err := s.queryUsers(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return users, nil
}

// GetUsersByEmail returns the users whose email equals email exactly.
func (s *Store) GetUsersByEmail(ctx context.Context, email string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM insurance_users WHERE email = ?`

	users, err := s.queryUsers(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return users, nil
}

// SearchUsersByName returns users whose first or last name contains name.
// Wildcards in name are matched literally.
func (s *Store) SearchUsersByName(ctx context.Context, name string) ([]model.User, error) {
	pattern := "%" + escapeLike(name) + "%"

	query := `SELECT ` + userColumns + ` FROM insurance_users WHERE ` +
		s.likeClause("first_name") + ` OR ` + s.likeClause("last_name") +
		` ORDER BY user_id`

	users, err := s.queryUsers(ctx, query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search users by name: %w", err)
	}
	return users, nil
}

func (s *Store) likeClause(column string) string {
	if s.nameMode == NameSearchInsensitive {
		return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '" + likeEscape + "'"
	}
	return column + " LIKE ? ESCAPE '" + likeEscape + "'"
}

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0, 1)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", s.scrub(err))
	}
	return users, nil
}

func scanUser(rows *sql.Rows) (model.User, error) {
	var u model.User
	err := rows.Scan(
		&u.UserID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.DateOfBirth,
		&u.PolicyNumber,
		&u.PolicyType,
		&u.PremiumAmount,
		&u.PolicyStartDate,
		&u.PolicyEndDate,
		&u.Address,
		&u.City,
		&u.State,
		&u.ZipCode,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}
