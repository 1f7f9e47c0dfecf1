package models

import (
	"fmt"
	"strings"
	"time"
)

// Plan names as they appear in the fixture files.
const (
	PlanFree = "Free Plan"
	PlanPro  = "Pro Plan"
	PlanMax  = "Max Plan"
)

// Transaction statuses.
const (
	StatusSuccess = "Success"
	StatusPending = "Pending"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date wraps time.Time so both full timestamps and bare YYYY-MM-DD values
// decode, which is what the fixture files contain.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

type User struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Plan             string `json:"plan"`
	Status           string `json:"status"`
	RegistrationDate Date   `json:"registrationDate"`
}

// Transaction carries a denormalized snapshot of the user at transaction
// time. No referential integrity against the user set is enforced.
type Transaction struct {
	ID              int    `json:"id"`
	TransactionCode string `json:"transactionCode"`
	UserID          int    `json:"userId"`
	UserName        string `json:"userName"`
	UserEmail       string `json:"userEmail"`
	Plan            string `json:"plan"`
	Amount          int    `json:"amount"`
	Status          string `json:"status"`
	TransactionDate Date   `json:"transactionDate"`
	PaymentMethod   string `json:"paymentMethod"`
}

type Visitor struct {
	RegistrationDate Date `json:"registrationDate"`
}
