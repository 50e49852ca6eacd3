package entity

import (
	"regexp"
	"time"
)

type ViolationSeverity string

const (
	SeverityMinor       ViolationSeverity = "minor"
	SeverityLow         ViolationSeverity = "low"
	SeveritySevere      ViolationSeverity = "severe"
	SeverityDeathSevere ViolationSeverity = "death_severe"
)

func (s ViolationSeverity) String() string {
	return string(s)
}

func (s ViolationSeverity) IsValid() bool {
	switch s {
	case SeverityMinor, SeverityLow, SeveritySevere, SeverityDeathSevere:
		return true
	}
	return false
}

type ViolationCategory string

const (
	CategorySpeed         ViolationCategory = "speed"
	CategoryParking       ViolationCategory = "parking"
	CategorySignal        ViolationCategory = "signal"
	CategoryDocumentation ViolationCategory = "documentation"
	CategorySafety        ViolationCategory = "safety"
	CategoryAlcohol       ViolationCategory = "alcohol"
	CategoryOther         ViolationCategory = "other"
)

func (c ViolationCategory) String() string {
	return string(c)
}

func (c ViolationCategory) IsValid() bool {
	switch c {
	case CategorySpeed, CategoryParking, CategorySignal, CategoryDocumentation,
		CategorySafety, CategoryAlcohol, CategoryOther:
		return true
	}
	return false
}

var violationCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

// IsValidViolationCode reports whether code is a non-empty alphanumeric
// string with optional hyphen separators, e.g. "SP001" or "PK-12".
func IsValidViolationCode(code string) bool {
	return violationCodePattern.MatchString(code)
}

// TrafficViolation is a catalog entry describing a type of infraction and
// its default penalty. Owned by admins; read at fine-creation time.
type TrafficViolation struct {
	ID            string            `json:"id" firestore:"id"`
	Name          string            `json:"name" firestore:"name"`
	Code          string            `json:"code" firestore:"code"`
	Description   string            `json:"description,omitempty" firestore:"description,omitempty"`
	DefaultAmount float64           `json:"default_amount" firestore:"defaultAmount"`
	Currency      Currency          `json:"currency" firestore:"currency"`
	Severity      ViolationSeverity `json:"severity" firestore:"severity"`
	Category      ViolationCategory `json:"category" firestore:"category"`
	Points        int               `json:"points" firestore:"points"`
	IsActive      bool              `json:"is_active" firestore:"isActive"`
	CreatedBy     string            `json:"created_by" firestore:"createdBy"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
