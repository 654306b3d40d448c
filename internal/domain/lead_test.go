package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenciau/leadrelay/internal/pii"
)

var testThresholds = Thresholds{Individual: 1_400_000, Combined: 2_000_000}

func primaryApplicant(income int64) Applicant {
	return Applicant{
		Name:   "Maria Gonzalez",
		Email:  "maria@example.com",
		Phone:  "+56 9 1234 5678",
		Income: income,
	}
}

func TestQualify(t *testing.T) {
	cases := map[string]struct {
		lead     Lead
		expected LeadClassification
		err      error
	}{
		"individual income meets threshold": {
			lead:     Lead{Applicant: primaryApplicant(1_600_000)},
			expected: Individual,
		},
		"individual exactly at threshold": {
			lead:     Lead{Applicant: primaryApplicant(1_400_000)},
			expected: Individual,
		},
		"combined incomes meet threshold": {
			lead: Lead{
				Applicant:     primaryApplicant(900_000),
				Complementary: &Applicant{Name: "Pedro Soto", Email: "pedro@example.com", Phone: "987654321", Income: 1_200_000},
			},
			expected: Combined,
		},
		"individual takes precedence over complementary data": {
			lead: Lead{
				Applicant:     primaryApplicant(1_600_000),
				Complementary: &Applicant{Name: "Pedro Soto", Email: "pedro@example.com", Phone: "987654321", Income: 1_200_000},
			},
			expected: Individual,
		},
		"below both thresholds": {
			lead: Lead{
				Applicant:     primaryApplicant(900_000),
				Complementary: &Applicant{Income: 800_000},
			},
			err: ErrNotQualified,
		},
		"below individual without complementary": {
			lead: Lead{Applicant: primaryApplicant(900_000)},
			err:  ErrNotQualified,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Qualify(tc.lead, testThresholds)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestBuildEvent_Individual(t *testing.T) {
	lead := Lead{Applicant: primaryApplicant(1_600_000), FBP: "fb.1.123.456", FBC: "fb.1.123.789"}

	event, err := BuildEvent(lead, Individual, "")
	require.NoError(t, err)

	require.Equal(t, "Lead", event.EventName)
	require.NotZero(t, event.EventTime)
	require.NotEmpty(t, event.EventID)

	require.Equal(t, int64(2_200_000), event.CustomData.Value)
	require.Equal(t, int64(28_000_000), event.CustomData.PredictedLTV)
	require.Equal(t, "real_estate_premium_individual", event.CustomData.ContentCategory)
	require.Equal(t, "High_Value_Individual_Lead", event.CustomData.ContentName)
	require.Equal(t, "lead_form", event.CustomData.ContentType)
	require.Equal(t, "CLP", event.CustomData.Currency)
	require.Equal(t, "individual", event.CustomData.IncomeType)
	require.Equal(t, "high", event.CustomData.Priority)
	require.Equal(t, "high", event.CustomData.ConversionProbability)
	require.Equal(t, "low", event.CustomData.ProcessComplexity)
	require.Zero(t, event.CustomData.TotalApplicants)

	// no second identity block for individual qualification
	require.Empty(t, event.UserData.Email2)
	require.Empty(t, event.UserData.Phone2)
	require.Empty(t, event.UserData.FirstName2)
	require.Empty(t, event.UserData.LastName2)

	require.Equal(t, "fb.1.123.456", event.UserData.FBP)
	require.Equal(t, "fb.1.123.789", event.UserData.FBC)
}

func TestBuildEvent_Combined(t *testing.T) {
	lead := Lead{
		Applicant:     primaryApplicant(900_000),
		Complementary: &Applicant{Name: "Pedro Soto", Email: "pedro@example.com", Phone: "9 8765 4321", Income: 1_200_000},
	}

	event, err := BuildEvent(lead, Combined, "")
	require.NoError(t, err)

	require.Equal(t, int64(1_800_000), event.CustomData.Value)
	require.Equal(t, int64(22_000_000), event.CustomData.PredictedLTV)
	require.Equal(t, "real_estate_combined", event.CustomData.ContentCategory)
	require.Equal(t, "Combined_Income_Lead", event.CustomData.ContentName)
	require.Equal(t, "combined", event.CustomData.IncomeType)
	require.Equal(t, "medium", event.CustomData.Priority)
	require.Equal(t, "medium", event.CustomData.ConversionProbability)
	require.Equal(t, "high", event.CustomData.ProcessComplexity)
	require.Equal(t, 2, event.CustomData.TotalApplicants)

	expectedEmail2, err := pii.Hash("pedro@example.com")
	require.NoError(t, err)
	expectedPhone2, err := pii.Hash(pii.NormalizePhone("9 8765 4321"))
	require.NoError(t, err)
	require.Equal(t, expectedEmail2, event.UserData.Email2)
	require.Equal(t, expectedPhone2, event.UserData.Phone2)
	require.NotEmpty(t, event.UserData.FirstName2)
	require.NotEmpty(t, event.UserData.LastName2)
}

func TestBuildEvent_HashesIdentityFields(t *testing.T) {
	event, err := BuildEvent(Lead{Applicant: primaryApplicant(1_600_000)}, Individual, "")
	require.NoError(t, err)

	expectedEmail, err := pii.Hash("maria@example.com")
	require.NoError(t, err)
	expectedPhone, err := pii.Hash("56912345678")
	require.NoError(t, err)
	expectedFirst, err := pii.Hash("Maria")
	require.NoError(t, err)
	expectedLast, err := pii.Hash("Gonzalez")
	require.NoError(t, err)
	expectedCity, err := pii.Hash("santiago")
	require.NoError(t, err)

	require.Equal(t, expectedEmail, event.UserData.Email)
	require.Equal(t, expectedPhone, event.UserData.Phone)
	require.Equal(t, expectedFirst, event.UserData.FirstName)
	require.Equal(t, expectedLast, event.UserData.LastName)
	require.Equal(t, expectedCity, event.UserData.City)
}

func TestBuildEvent_ReusesSuppliedEventID(t *testing.T) {
	event, err := BuildEvent(Lead{Applicant: primaryApplicant(1_600_000)}, Individual, "broker_1693526400000_abc123def")
	require.NoError(t, err)
	require.Equal(t, "broker_1693526400000_abc123def", event.EventID)
}

func TestBuildEvent_CombinedWithoutComplementary(t *testing.T) {
	_, err := BuildEvent(Lead{Applicant: primaryApplicant(900_000)}, Combined, "")
	require.Error(t, err)
}
