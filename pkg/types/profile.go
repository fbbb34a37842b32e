// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Sex constraint values, matching the catalog's eligibility vocabulary.
const (
	SexAll    = "ALL"
	SexFemale = "FEMALE"
	SexMale   = "MALE"
)

// ProfileLocation is where the candidate can travel for study visits.
// Country is the only hard filter; state and city refine display output.
type ProfileLocation struct {
	Country    string `json:"country" yaml:"country"`
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
}

// Profile describes the candidate being matched against the catalog. A
// profile is immutable for the duration of one matching run.
type Profile struct {
	// Age is the candidate's age in whole years.
	Age int `json:"age" yaml:"age"`

	// Sex is ALL, FEMALE, or MALE (case-insensitive on input).
	Sex string `json:"sex" yaml:"sex"`

	// Conditions are the free-text conditions to match against study
	// condition lists. At least one is required.
	Conditions []string `json:"conditions" yaml:"conditions"`

	// Location is where the candidate can attend a study site.
	Location ProfileLocation `json:"location" yaml:"location"`

	// HealthyVolunteer declares the candidate a healthy volunteer. Studies
	// that explicitly refuse healthy volunteers are then excluded.
	HealthyVolunteer bool `json:"healthy_volunteer" yaml:"healthy_volunteer"`

	// MaxResults caps the number of ranked matches returned.
	MaxResults int `json:"max_results,omitempty" yaml:"max_results,omitempty"`

	// RecruitingOnly restricts the catalog query to recruiting studies.
	RecruitingOnly bool `json:"recruiting_only" yaml:"recruiting_only"`
}

// Validate checks the profile for the fields matching cannot run without.
func (p Profile) Validate() error {
	if p.Age < 0 {
		return fmt.Errorf("age must be non-negative, got %d", p.Age)
	}
	switch strings.ToUpper(p.Sex) {
	case SexAll, SexFemale, SexMale, "":
	default:
		return fmt.Errorf("sex must be one of ALL, FEMALE, MALE, got %q", p.Sex)
	}
	if len(p.Conditions) == 0 {
		return fmt.Errorf("at least one condition is required")
	}
	for _, c := range p.Conditions {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("conditions must not be blank")
		}
	}
	if p.Location.Country == "" {
		return fmt.Errorf("location country is required")
	}
	return nil
}
