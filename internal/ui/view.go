package ui

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/policyscope/policyscope/internal/model"
)

const notAvailable = "N/A"

var moneyPrinter = message.NewPrinter(language.English)

// field is one labelled value on a card.
type field struct {
	Icon  string
	Label string
	Value string
}

// group is a titled column of fields.
type group struct {
	Title  string
	Fields []field
}

// card renders one entity.
type card struct {
	Title      string
	Icon       string
	Badge      string
	BadgeClass string
	Groups     []group
}

// table is the flat raw-data view. Columns follow the wire order of the record.
type table struct {
	Columns []string
	Rows    [][]string
}

var statusIcons = map[model.PolicyStatus]string{
	model.PolicyStatusActive:    "✅",
	model.PolicyStatusExpired:   "⏰",
	model.PolicyStatusCancelled: "❌",
	model.PolicyStatusPending:   "⏳",
}

func userCards(users []model.User) []card {
	cards := make([]card, 0, len(users))
	for _, u := range users {
		cards = append(cards, card{
			Title: strings.TrimSpace(u.FullName()) + " (ID: " + strconv.FormatInt(u.UserID, 10) + ")",
			Icon:  "👤",
			Groups: []group{
				{
					Title: "Personal Information",
					Fields: []field{
						{"📧", "Email", text(u.Email)},
						{"📞", "Phone", optText(u.Phone)},
						{"🎂", "Date of Birth", optDate(u.DateOfBirth)},
						{"🏠", "Address", optText(u.Address)},
						{"🏙️", "City, State", optText(u.City) + ", " + optText(u.State) + " " + optText(u.ZipCode)},
					},
				},
				{
					Title: "Policy Information",
					Fields: []field{
						{"📋", "Policy Number", text(u.PolicyNumber)},
						{"🏷️", "Policy Type", text(u.PolicyType)},
						{"💰", "Premium Amount", optMoney(u.PremiumAmount)},
						{"📅", "Start Date", optDate(u.PolicyStartDate)},
						{"📅", "End Date", optDate(u.PolicyEndDate)},
					},
				},
			},
		})
	}
	return cards
}

func policyCards(policies []model.Policy) []card {
	cards := make([]card, 0, len(policies))
	for _, p := range policies {
		icon, ok := statusIcons[p.PolicyStatus]
		if !ok {
			icon = "📋"
		}

		dates := []field{
			{"📅", "Start Date", date(p.PolicyStartDate)},
			{"📅", "End Date", date(p.PolicyEndDate)},
			{"💱", "Payment Frequency", text(p.PaymentFrequency)},
			{"👨‍💼", "Agent", optText(p.AgentName)},
			{"📞", "Agent Phone", optText(p.AgentPhone)},
		}
		if p.PolicyDescription != nil && *p.PolicyDescription != "" {
			dates = append(dates, field{"📝", "Description", *p.PolicyDescription})
		}

		cards = append(cards, card{
			Title:      "Policy: " + text(p.PolicyNumber) + " - " + text(string(p.PolicyType)),
			Icon:       icon,
			Badge:      text(string(p.PolicyStatus)),
			BadgeClass: "badge-" + strings.ToLower(string(p.PolicyStatus)),
			Groups: []group{
				{
					Title: "Policy Details",
					Fields: []field{
						{"🆔", "Policy ID", strconv.FormatInt(p.PolicyID, 10)},
						{"👤", "User ID", strconv.FormatInt(p.UserID, 10)},
						{"📊", "Status", text(string(p.PolicyStatus))},
						{"💰", "Premium", money(p.PremiumAmount)},
						{"🏦", "Coverage", optMoney(p.CoverageAmount)},
						{"💳", "Deductible", optMoney(p.DeductibleAmount)},
					},
				},
				{Title: "Dates & Agent Info", Fields: dates},
			},
		})
	}
	return cards
}

// rawTable flattens records into a table, one column per JSON field.
func rawTable[T any](rows []T) table {
	var zero T
	t := table{Columns: jsonColumns(reflect.TypeOf(zero))}
	for _, row := range rows {
		v := reflect.ValueOf(row)
		cells := make([]string, 0, len(t.Columns))
		for i := 0; i < v.NumField(); i++ {
			if _, ok := jsonName(v.Type().Field(i)); !ok {
				continue
			}
			cells = append(cells, cell(v.Field(i).Interface()))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func jsonColumns(typ reflect.Type) []string {
	cols := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if name, ok := jsonName(typ.Field(i)); ok {
			cols = append(cols, name)
		}
	}
	return cols
}

func jsonName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, true
}

// cell renders a value the way it appears on the wire, with null left blank.
func cell(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	if string(b) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s
	}
	return string(b)
}

func text(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func optText(s *string) string {
	if s == nil {
		return notAvailable
	}
	return text(*s)
}

func date(d model.Date) string {
	if d.IsZero() {
		return notAvailable
	}
	return d.String()
}

func optDate(d *model.Date) string {
	if d == nil {
		return notAvailable
	}
	return date(*d)
}

func money(v float64) string {
	return moneyPrinter.Sprintf("$%.2f", v)
}

func optMoney(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return money(*v)
}
