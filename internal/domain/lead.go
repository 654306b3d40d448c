package domain

import (
	"fmt"
	"time"

	"github.com/agenciau/leadrelay/internal/pii"
)

// LeadClassification is the closed set of qualification outcomes that
// reach the event builder. Which identity and attribution fields an event
// carries is decided by the classification, never by ad-hoc field checks.
type LeadClassification int

const (
	// Individual means the primary income alone meets the individual
	// threshold. Takes precedence even when complementary data is present.
	Individual LeadClassification = iota
	// Combined means the primary and complementary incomes together meet
	// the combined threshold while the primary alone does not qualify.
	Combined
)

func (c LeadClassification) String() string {
	switch c {
	case Individual:
		return "individual"
	case Combined:
		return "combined"
	default:
		return "unknown"
	}
}

// Thresholds are the qualification income floors in CLP.
type Thresholds struct {
	Individual int64 `env:"INCOME_THRESHOLD_INDIVIDUAL" envDefault:"1400000"`
	Combined   int64 `env:"INCOME_THRESHOLD_COMBINED" envDefault:"2000000"`
}

// Applicant is one person's contact data on a lead.
type Applicant struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Income int64  `json:"income"`
}

// Lead is a prospect's submitted form data. Complementary is present only
// when a second applicant's income backs the qualification.
type Lead struct {
	Applicant
	Complementary *Applicant `json:"complementary,omitempty"`
	FBP           string     `json:"fbp,omitempty"`
	FBC           string     `json:"fbc,omitempty"`
}

// ErrNotQualified marks a lead that meets neither income threshold. Such
// leads never reach the event builder or the workflow webhook.
var ErrNotQualified = fmt.Errorf("lead does not meet any income threshold")

// Qualify classifies a lead against the configured thresholds. Individual
// qualification wins whenever the primary income meets its threshold;
// complementary data is ignored in that case.
func Qualify(lead Lead, t Thresholds) (LeadClassification, error) {
	if lead.Income >= t.Individual {
		return Individual, nil
	}
	if lead.Complementary != nil && lead.Income+lead.Complementary.Income >= t.Combined {
		return Combined, nil
	}
	return 0, ErrNotQualified
}

// Per-tier attribution constants, CLP.
const (
	individualValue = 2_200_000
	individualLTV   = 28_000_000
	combinedValue   = 1_800_000
	combinedLTV     = 22_000_000

	currency    = "CLP"
	contentType = "lead_form"
	defaultCity = "santiago"
)

// BuildEvent assembles the conversion event for a qualified lead. eventID
// carries the de-duplication key shared with the client pixel; pass "" to
// mint a fresh one. The complementary applicant's identity lands in the
// _2-suffixed block for Combined leads only.
func BuildEvent(lead Lead, classification LeadClassification, eventID string) (ConversionEvent, error) {
	if eventID == "" {
		eventID = pii.EventID()
	}

	user, err := hashApplicant(lead.Applicant)
	if err != nil {
		return ConversionEvent{}, err
	}
	user.City, err = pii.Hash(defaultCity)
	if err != nil {
		return ConversionEvent{}, err
	}
	user.ExternalID = pii.ExternalID()
	user.FBP = lead.FBP
	user.FBC = lead.FBC

	event := ConversionEvent{
		EventName: "Lead",
		EventTime: time.Now().Unix(),
		EventID:   eventID,
		UserData:  user,
	}

	switch classification {
	case Individual:
		event.CustomData = CustomData{
			Value:                 individualValue,
			Currency:              currency,
			ContentCategory:       "real_estate_premium_individual",
			ContentName:           "High_Value_Individual_Lead",
			ContentType:           contentType,
			PredictedLTV:          individualLTV,
			IncomeType:            "individual",
			Priority:              "high",
			ConversionProbability: "high",
			ProcessComplexity:     "low",
		}
	case Combined:
		if lead.Complementary == nil {
			return ConversionEvent{}, fmt.Errorf("combined lead without complementary applicant")
		}
		second, err := hashApplicant(*lead.Complementary)
		if err != nil {
			return ConversionEvent{}, err
		}
		event.UserData.Email2 = second.Email
		event.UserData.Phone2 = second.Phone
		event.UserData.FirstName2 = second.FirstName
		event.UserData.LastName2 = second.LastName

		event.CustomData = CustomData{
			Value:                 combinedValue,
			Currency:              currency,
			ContentCategory:       "real_estate_combined",
			ContentName:           "Combined_Income_Lead",
			ContentType:           contentType,
			PredictedLTV:          combinedLTV,
			IncomeType:            "combined",
			Priority:              "medium",
			ConversionProbability: "medium",
			ProcessComplexity:     "high",
			TotalApplicants:       2,
		}
	default:
		return ConversionEvent{}, fmt.Errorf("unknown lead classification: %d", classification)
	}

	return event, nil
}

func hashApplicant(a Applicant) (UserData, error) {
	var (
		user UserData
		err  error
	)

	if user.Email, err = pii.Hash(a.Email); err != nil {
		return UserData{}, fmt.Errorf("hash email: %w", err)
	}
	if user.Phone, err = pii.Hash(pii.NormalizePhone(a.Phone)); err != nil {
		return UserData{}, fmt.Errorf("hash phone: %w", err)
	}

	first, last := pii.SplitName(a.Name)
	if user.FirstName, err = pii.Hash(first); err != nil {
		return UserData{}, fmt.Errorf("hash first name: %w", err)
	}
	if user.LastName, err = pii.Hash(last); err != nil {
		return UserData{}, fmt.Errorf("hash last name: %w", err)
	}

	return user, nil
}
