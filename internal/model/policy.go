package model

// PolicyStatus is the lifecycle state of a policy.
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "Active"
	PolicyStatusExpired   PolicyStatus = "Expired"
	PolicyStatusCancelled PolicyStatus = "Cancelled"
	PolicyStatusPending   PolicyStatus = "Pending"
)

// AllPolicyStatuses returns the permitted statuses in display order.
func AllPolicyStatuses() []PolicyStatus {
	return []PolicyStatus{
		PolicyStatusActive,
		PolicyStatusExpired,
		PolicyStatusCancelled,
		PolicyStatusPending,
	}
}

// IsValid reports whether s is one of the permitted statuses.
// Matching is exact; "active" is not a valid status.
func (s PolicyStatus) IsValid() bool {
	switch s {
	case PolicyStatusActive, PolicyStatusExpired, PolicyStatusCancelled, PolicyStatusPending:
		return true
	}
	return false
}

// ParsePolicyStatus converts raw into a PolicyStatus.
func ParsePolicyStatus(raw string) (PolicyStatus, bool) {
	s := PolicyStatus(raw)
	return s, s.IsValid()
}

// PolicyType is the line of business a policy belongs to.
type PolicyType string

const (
	PolicyTypeAuto     PolicyType = "Auto"
	PolicyTypeHome     PolicyType = "Home"
	PolicyTypeLife     PolicyType = "Life"
	PolicyTypeHealth   PolicyType = "Health"
	PolicyTypeBusiness PolicyType = "Business"
)

// AllPolicyTypes returns the permitted types in display order.
func AllPolicyTypes() []PolicyType {
	return []PolicyType{
		PolicyTypeAuto,
		PolicyTypeHome,
		PolicyTypeLife,
		PolicyTypeHealth,
		PolicyTypeBusiness,
	}
}

// IsValid reports whether t is one of the permitted types.
func (t PolicyType) IsValid() bool {
	switch t {
	case PolicyTypeAuto, PolicyTypeHome, PolicyTypeLife, PolicyTypeHealth, PolicyTypeBusiness:
		return true
	}
	return false
}

// ParsePolicyType converts raw into a PolicyType.
func ParsePolicyType(raw string) (PolicyType, bool) {
	t := PolicyType(raw)
	return t, t.IsValid()
}

// Policy is a row of policies_summ.
type Policy struct {
	PolicyID          int64        `json:"policy_id"`
	UserID            int64        `json:"user_id"`
	PolicyNumber      string       `json:"policy_number"`
	PolicyType        PolicyType   `json:"policy_type"`
	PolicyStatus      PolicyStatus `json:"policy_status"`
	PremiumAmount     float64      `json:"premium_amount"`
	CoverageAmount    *float64     `json:"coverage_amount"`
	DeductibleAmount  *float64     `json:"deductible_amount"`
	PolicyStartDate   Date         `json:"policy_start_date"`
	PolicyEndDate     Date         `json:"policy_end_date"`
	PaymentFrequency  string       `json:"payment_frequency"`
	AgentName         *string      `json:"agent_name"`
	AgentPhone        *string      `json:"agent_phone"`
	PolicyDescription *string      `json:"policy_description"`
	CreatedAt         *Timestamp   `json:"created_at"`
	UpdatedAt         *Timestamp   `json:"updated_at"`
}
