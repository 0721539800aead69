package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of profile and reference data files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadProfile loads a patient profile from a YAML file
func (ip *InputParser) LoadProfile(filename string) (*domain.Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseProfile(data)
}

// ParseProfile parses and validates profile YAML
func (ip *InputParser) ParseProfile(data []byte) (*domain.Profile, error) {
	var profile domain.Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.normalizeBills(profile.Bills)

	if err := ip.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &profile, nil
}

// SaveProfile validates profile and writes it back as YAML
func (ip *InputParser) SaveProfile(filename string, profile *domain.Profile) error {
	if err := ip.ValidateProfile(profile); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// normalizeBills fills in ids and original amounts that a feed left out.
func (ip *InputParser) normalizeBills(bills []domain.BillRecord) {
	for i := range bills {
		if bills[i].ID == "" {
			bills[i].ID = uuid.NewString()
		}
		if bills[i].OriginalAmount.IsZero() {
			bills[i].OriginalAmount = bills[i].Amount
		}
		if bills[i].Status == "" {
			bills[i].Status = domain.BillStatusPending
		}
	}
}

// ValidateProfile validates the loaded profile
func (ip *InputParser) ValidateProfile(profile *domain.Profile) error {
	if err := profile.Benefits.Validate(); err != nil {
		return fmt.Errorf("benefits validation failed: %w", err)
	}

	seen := make(map[string]bool, len(profile.Bills))
	for i, bill := range profile.Bills {
		if err := bill.Validate(); err != nil {
			return fmt.Errorf("bill %d validation failed: %w", i, err)
		}
		if seen[bill.ID] {
			return fmt.Errorf("%w: duplicate bill id %s", domain.ErrInvalidArgument, bill.ID)
		}
		seen[bill.ID] = true
	}

	if profile.Negotiation != nil {
		if err := profile.Negotiation.Validate(); err != nil {
			return fmt.Errorf("negotiation policy validation failed: %w", err)
		}
	}
	return nil
}

// LoadReference loads procedures, providers and assistance programs from a
// YAML file. Sections left out of the file keep the built-in defaults.
func (ip *InputParser) LoadReference(filename string) (*domain.ReferenceData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseReference(data)
}

// ParseReference parses and validates reference YAML
func (ip *InputParser) ParseReference(data []byte) (*domain.ReferenceData, error) {
	var ref domain.ReferenceData
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	defaults := domain.DefaultReferenceData()
	if len(ref.Procedures) == 0 {
		ref.Procedures = defaults.Procedures
	}
	if len(ref.Providers) == 0 {
		ref.Providers = defaults.Providers
	}
	if len(ref.Programs) == 0 {
		ref.Programs = defaults.Programs
	}

	if err := ip.ValidateReference(&ref); err != nil {
		return nil, fmt.Errorf("reference data validation failed: %w", err)
	}
	return &ref, nil
}

// ValidateReference validates every procedure, provider and program
func (ip *InputParser) ValidateReference(ref *domain.ReferenceData) error {
	codes := make(map[string]bool, len(ref.Procedures))
	for _, q := range ref.Procedures {
		if err := q.Validate(); err != nil {
			return err
		}
		if codes[q.CPTCode] {
			return fmt.Errorf("%w: duplicate CPT code %s", domain.ErrInvariantViolation, q.CPTCode)
		}
		codes[q.CPTCode] = true
	}

	for _, p := range ref.Providers {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	for i, prog := range ref.Programs {
		if prog.Name == "" {
			return fmt.Errorf("%w: assistance program %d has no name", domain.ErrInvariantViolation, i)
		}
		if prog.Status == "" {
			ref.Programs[i].Status = domain.EligibilityCheck
		}
	}
	return nil
}
