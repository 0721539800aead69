package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfileYAML = `
name: "Jordan"
benefits:
  insurer: "Blue Cross Blue Shield"
  plan_type: ppo
  deductible: 2000
  deductible_met: 500
  out_of_pocket_max: 8000
  out_of_pocket_met: 1000
  coinsurance_rate: 20
bills:
  - id: "1"
    provider: "City Medical Center"
    amount: 3500
    service_date: 2025-01-15
    due_date: 2025-02-15
    status: pending
  - provider: "Radiology Associates"
    amount: "800.50"
    service_date: 2025-01-10
    due_date: 2025-02-10
    status: review
  - id: "3"
    provider: "Emergency Physicians"
    amount: 840
    original_amount: 1200
    status: negotiating
negotiation:
  reduction: 0.25
  allow_repeat: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile_Valid(t *testing.T) {
	parser := NewInputParser()
	path := writeFile(t, "profile.yaml", validProfileYAML)

	profile, err := parser.LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "Jordan", profile.Name)
	assert.Equal(t, domain.PlanTypePPO, profile.Benefits.PlanType)
	assert.True(t, profile.Benefits.Deductible.Equal(decimal.NewFromInt(2000)))
	require.Len(t, profile.Bills, 3)

	// bills without an id get a generated one
	_, err = uuid.Parse(profile.Bills[1].ID)
	assert.NoError(t, err, "generated id should be a uuid")
	assert.True(t, profile.Bills[1].Amount.Equal(decimal.RequireFromString("800.50")))
	assert.True(t, profile.Bills[1].OriginalAmount.Equal(profile.Bills[1].Amount), "original amount defaults to amount")

	assert.True(t, profile.Bills[2].Savings().Equal(decimal.NewFromInt(360)))
	assert.Equal(t, 2025, profile.Bills[0].ServiceDate.Year())

	require.NotNil(t, profile.Negotiation)
	assert.True(t, profile.Negotiation.AllowRepeat)
	assert.True(t, profile.Negotiation.Reduction.Equal(decimal.NewFromFloat(0.25)))
}

func TestSaveProfile_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	profile, err := parser.ParseProfile([]byte(validProfileYAML))
	require.NoError(t, err)

	profile.Bills[0].Amount = decimal.RequireFromString("2625.00")
	profile.Bills[0].Status = domain.BillStatusNegotiating

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, parser.SaveProfile(path, profile))

	loaded, err := parser.LoadProfile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Bills, 3)
	assert.Equal(t, profile.Bills[1].ID, loaded.Bills[1].ID, "generated ids are persisted")
	assert.True(t, loaded.Bills[0].Amount.Equal(decimal.NewFromInt(2625)))
	assert.True(t, loaded.Bills[0].OriginalAmount.Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, domain.BillStatusNegotiating, loaded.Bills[0].Status)
	assert.True(t, loaded.Bills[0].DueDate.Equal(profile.Bills[0].DueDate))
	assert.True(t, loaded.Benefits.CoinsuranceRate.Equal(decimal.NewFromInt(20)))
}

func TestSaveProfile_RejectsInvalid(t *testing.T) {
	profile := domain.DefaultProfile()
	profile.Bills[0].Status = "paid"

	path := filepath.Join(t.TempDir(), "bad.yaml")
	err := NewInputParser().SaveProfile(path, &profile)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := NewInputParser().LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParseProfile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "deductible met above deductible",
			yaml:    "benefits: {deductible: 100, deductible_met: 200, out_of_pocket_max: 1000, coinsurance_rate: 20}",
			wantErr: domain.ErrInvariantViolation,
		},
		{
			name: "duplicate bill ids",
			yaml: `
benefits: {deductible: 100, out_of_pocket_max: 1000, coinsurance_rate: 20}
bills:
  - {id: "a", provider: "X", amount: 10, status: pending}
  - {id: "a", provider: "Y", amount: 20, status: pending}
`,
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name: "negative bill amount",
			yaml: `
benefits: {deductible: 100, out_of_pocket_max: 1000, coinsurance_rate: 20}
bills:
  - {id: "a", provider: "X", amount: -10, status: pending}
`,
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name: "unknown status",
			yaml: `
benefits: {deductible: 100, out_of_pocket_max: 1000, coinsurance_rate: 20}
bills:
  - {id: "a", provider: "X", amount: 10, status: paid}
`,
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name: "bad negotiation reduction",
			yaml: `
benefits: {deductible: 100, out_of_pocket_max: 1000, coinsurance_rate: 20}
negotiation: {reduction: 1.5}
`,
			wantErr: domain.ErrInvalidArgument,
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseProfile([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
		})
	}
}

func TestParseProfile_BadYAML(t *testing.T) {
	_, err := NewInputParser().ParseProfile([]byte("benefits: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseProfile_DefaultsStatus(t *testing.T) {
	profile, err := NewInputParser().ParseProfile([]byte(`
benefits: {deductible: 100, out_of_pocket_max: 1000, coinsurance_rate: 20}
bills:
  - {id: "a", provider: "X", amount: 10}
`))
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusPending, profile.Bills[0].Status)
}

func TestParseReference(t *testing.T) {
	parser := NewInputParser()

	ref, err := parser.ParseReference([]byte(`
procedures:
  - {name: "Sleep Study", cpt_code: "95810", low_cost: 1000, avg_cost: 2500, high_cost: 4000}
`))
	require.NoError(t, err)
	require.Len(t, ref.Procedures, 1)
	assert.Equal(t, "Sleep Study", ref.Procedures[0].Name)
	assert.Equal(t, domain.DefaultProviders(), ref.Providers, "missing sections keep defaults")
	assert.Len(t, ref.Programs, 5)
}

func TestParseReference_Invalid(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.ParseReference([]byte(`
procedures:
  - {name: "Backwards", cpt_code: "1", low_cost: 500, avg_cost: 100, high_cost: 900}
`))
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))

	_, err = parser.ParseReference([]byte(`
procedures:
  - {name: "A", cpt_code: "1", low_cost: 1, avg_cost: 2, high_cost: 3}
  - {name: "B", cpt_code: "1", low_cost: 1, avg_cost: 2, high_cost: 3}
`))
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))

	_, err = parser.ParseReference([]byte(`
providers:
  - {name: "Free Clinic", quality_score: 4, distance_miles: 1, price_factor: 0}
`))
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
}

func TestLoadReference_ProgramStatusDefault(t *testing.T) {
	path := writeFile(t, "reference.yaml", `
assistance_programs:
  - {name: "County Hardship Fund", eligibility: "County residents", coverage: "Up to $2,000"}
`)
	ref, err := NewInputParser().LoadReference(path)
	require.NoError(t, err)
	require.Len(t, ref.Programs, 1)
	assert.Equal(t, domain.EligibilityCheck, ref.Programs[0].Status)
}
