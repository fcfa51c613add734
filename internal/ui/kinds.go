package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/policyscope/policyscope/internal/client"
	"github.com/policyscope/policyscope/internal/model"
)

// inputKind selects the form control rendered for a query kind.
type inputKind string

const (
	inputNumber inputKind = "number"
	inputText   inputKind = "text"
	inputSelect inputKind = "select"
)

// queryKind describes one lookup the page offers.
type queryKind struct {
	Key     string
	Label   string
	Icon    string
	Prompt  string
	Button  string
	Input   inputKind
	Options []string
	// Entity is "user" or "policy".
	Entity string
	run    func(ctx context.Context, b Backend, value string) client.Result
}

const (
	entityUser   = "user"
	entityPolicy = "policy"
)

// queryKinds in sidebar order. The first entry is the default.
var queryKinds = []queryKind{
	{
		Key: "user_id", Label: "Get User by ID", Icon: "👤",
		Prompt: "Enter User ID:", Button: "Search User",
		Input: inputNumber, Entity: entityUser,
		run: func(ctx context.Context, b Backend, v string) client.Result {
			id, _ := strconv.ParseInt(v, 10, 64)
			return b.GetUserByID(ctx, id)
		},
	},
	{
		Key: "user_email", Label: "Get User by Email", Icon: "📧",
		Prompt: "Enter Email Address:", Button: "Search User",
		Input: inputText, Entity: entityUser,
		run: func(ctx context.Context, b Backend, v string) client.Result {
			return b.GetUserByEmail(ctx, v)
		},
	},
	{
		Key: "user_name", Label: "Search Users by Name", Icon: "🔍",
		Prompt: "Enter Name (first or last):", Button: "Search Users",
		Input: inputText, Entity: entityUser,
		run: func(ctx context.Context, b Backend, v string) client.Result {
			return b.SearchUsersByName(ctx, v)
		},
	},
	{
		Key: "policy_number", Label: "Get Policy by Number", Icon: "📋",
		Prompt: "Enter Policy Number:", Button: "Search Policy",
		Input: inputText, Entity: entityPolicy,
		run: func(ctx context.Context, b Backend, v string) client.Result {
			return b.GetPolicyByNumber(ctx, v)
		},
	},
	{
		Key: "policies_user", Label: "Get Policies by User ID", Icon: "👤",
		Prompt: "Enter User ID:", Button: "Get Policies",
		Input: inputNumber, Entity: entityPolicy,
		run: func(ctx context.Context, b Backend, v string) client.Result {
			id, _ := strconv.ParseInt(v, 10, 64)
			return b.GetPoliciesByUser(ctx, id)
		},
	},
	{
		Key: "policies_status", Label: "Get Policies by Status", Icon: "📊",
		Prompt: "Select Policy Status:", Button: "Get Policies by Status",
		Input: inputSelect, Options: statusOptions(), Entity: entityPolicy,
		run: func(ctx context.Context, b Backend, v string) client.Result {
			return b.GetPoliciesByStatus(ctx, model.PolicyStatus(v))
		},
	},
	{
		Key: "policies_type", Label: "Get Policies by Type", Icon: "🏷️",
		Prompt: "Select Policy Type:", Button: "Get Policies by Type",
		Input: inputSelect, Options: typeOptions(), Entity: entityPolicy,
		run: func(ctx context.Context, b Backend, v string) client.Result {
			return b.GetPoliciesByType(ctx, model.PolicyType(v))
		},
	},
}

// lookupKind returns the kind for key, falling back to the default.
func lookupKind(key string) queryKind {
	for _, k := range queryKinds {
		if k.Key == key {
			return k
		}
	}
	return queryKinds[0]
}

// defaultValue is what the form control holds before the user edits it.
func (k queryKind) defaultValue() string {
	switch k.Input {
	case inputNumber:
		return "1"
	case inputSelect:
		return k.Options[0]
	default:
		return ""
	}
}

// checkValue normalizes a submitted value. It returns a hint instead when
// the value should not be sent to the service at all.
func (k queryKind) checkValue(raw string) (string, string) {
	v := strings.TrimSpace(raw)
	switch k.Input {
	case inputNumber:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 1 {
			return "", "Enter a whole number of 1 or more."
		}
		return strconv.FormatInt(id, 10), ""
	case inputSelect:
		if v == "" {
			return "", "Choose a value from the list."
		}
		return v, ""
	default:
		if v == "" {
			return "", "Enter a value to search."
		}
		return v, ""
	}
}

func statusOptions() []string {
	all := model.AllPolicyStatuses()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = string(s)
	}
	return out
}

func typeOptions() []string {
	all := model.AllPolicyTypes()
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}
