// Package model defines the read-only records served by the query service.
package model

// User is a row of insurance_users. Pointer fields are nullable columns and
// are emitted as JSON null when absent.
type User struct {
	UserID          int64      `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone"`
	DateOfBirth     *Date      `json:"date_of_birth"`
	PolicyNumber    string     `json:"policy_number"`
	PolicyType      string     `json:"policy_type"`
	PremiumAmount   *float64   `json:"premium_amount"`
	PolicyStartDate *Date      `json:"policy_start_date"`
	PolicyEndDate   *Date      `json:"policy_end_date"`
	Address         *string    `json:"address"`
	City            *string    `json:"city"`
	State           *string    `json:"state"`
	ZipCode         *string    `json:"zip_code"`
	CreatedAt       *Timestamp `json:"created_at"`
	UpdatedAt       *Timestamp `json:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
