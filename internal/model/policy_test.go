package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPolicyStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range AllPolicyStatuses() {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}

	for _, raw := range []string{"", "Unknown", "active", "ACTIVE", " Active", "Lapsed"} {
		if _, ok := ParsePolicyStatus(raw); ok {
			t.Errorf("%q should be invalid", raw)
		}
	}
}

func TestPolicyType_IsValid(t *testing.T) {
	t.Parallel()

	for _, pt := range AllPolicyTypes() {
		if !pt.IsValid() {
			t.Errorf("%q should be valid", pt)
		}
	}

	for _, raw := range []string{"", "auto", "Travel", "Home ", "Pet"} {
		if _, ok := ParsePolicyType(raw); ok {
			t.Errorf("%q should be invalid", raw)
		}
	}
}

func TestPolicy_JSONFieldOrder(t *testing.T) {
	t.Parallel()

	agent := "Dana Reyes"
	p := Policy{
		PolicyID:     7,
		UserID:       42,
		PolicyNumber: "POL-007",
		PolicyType:   PolicyTypeHome,
		PolicyStatus: PolicyStatusActive,
		AgentName:    &agent,
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)

	order := []string{`"policy_id"`, `"user_id"`, `"policy_number"`, `"policy_type"`, `"policy_status"`, `"premium_amount"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("missing %s in %s", key, out)
		}
		if idx < last {
			t.Errorf("%s out of order in %s", key, out)
		}
		last = idx
	}

	if !strings.Contains(out, `"coverage_amount":null`) {
		t.Errorf("absent optional field should be null: %s", out)
	}
	if !strings.Contains(out, `"agent_name":"Dana Reyes"`) {
		t.Errorf("agent_name not serialized: %s", out)
	}
}

func TestUser_FullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
	}
	for _, tt := range tests {
		u := User{FirstName: tt.first, LastName: tt.last}
		if got := u.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}
