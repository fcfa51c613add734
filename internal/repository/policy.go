package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/policyscope/policyscope/internal/model"
)

const policyColumns = `
	policy_id, user_id, policy_number, policy_type, policy_status,
	premium_amount, coverage_amount, deductible_amount,
	policy_start_date, policy_end_date, payment_frequency,
	agent_name, agent_phone, policy_description, created_at, updated_at`

// GetPoliciesByNumber returns the policy with the given policy number.
// policy_number is unique, so the result has at most one element.
func (s *Store) GetPoliciesByNumber(ctx context.Context, number string) ([]model.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies_summ WHERE policy_number = ?`

	policies, err := s.queryPolicies(ctx, query, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get policy by number: %w", err)
	}
	return policies, nil
}

// GetPoliciesByUserID returns every policy owned by userID.
func (s *Store) GetPoliciesByUserID(ctx context.Context, userID int64) ([]model.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies_summ WHERE user_id = ? ORDER BY policy_id`

	policies, err := s.queryPolicies(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get policies by user: %w", err)
	}
	return policies, nil
}

// GetPoliciesByStatus returns every policy in the given status.
func (s *Store) GetPoliciesByStatus(ctx context.Context, status model.PolicyStatus) ([]model.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies_summ WHERE policy_status = ? ORDER BY policy_id`

	policies, err := s.queryPolicies(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to get policies by status: %w", err)
	}
	return policies, nil
}

// GetPoliciesByType returns every policy of the given type.
func (s *Store) GetPoliciesByType(ctx context.Context, policyType model.PolicyType) ([]model.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies_summ WHERE policy_type = ? ORDER BY policy_id`

	policies, err := s.queryPolicies(ctx, query, string(policyType))
	if err != nil {
		return nil, fmt.Errorf("failed to get policies by type: %w", err)
	}
	return policies, nil
}

func (s *Store) queryPolicies(ctx context.Context, query string, args ...any) ([]model.Policy, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	policies := make([]model.Policy, 0, 1)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", s.scrub(err))
	}
	return policies, nil
}

func scanPolicy(rows *sql.Rows) (model.Policy, error) {
	var p model.Policy
	err := rows.Scan(
		&p.PolicyID,
		&p.UserID,
		&p.PolicyNumber,
		&p.PolicyType,
		&p.PolicyStatus,
		&p.PremiumAmount,
		&p.CoverageAmount,
		&p.DeductibleAmount,
		&p.PolicyStartDate,
		&p.PolicyEndDate,
		&p.PaymentFrequency,
		&p.AgentName,
		&p.AgentPhone,
		&p.PolicyDescription,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.Policy{}, fmt.Errorf("failed to scan policy: %w", err)
	}
	return p, nil
}
