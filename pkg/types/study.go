// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Study is one record from the ClinicalTrials.gov v2 catalog. The API returns
// a deeply nested document in which every module may be absent, so each module
// is pointer-typed and callers go through the accessor helpers below, which
// return safe defaults instead of panicking on missing data.
type Study struct {
	Protocol ProtocolSection `json:"protocolSection"`
}

// ProtocolSection groups the study modules the engine reads. Absence of a
// module means "unknown", not "empty".
type ProtocolSection struct {
	Identification    *IdentificationModule       `json:"identificationModule,omitempty"`
	Status            *StatusModule               `json:"statusModule,omitempty"`
	Sponsor           *SponsorCollaboratorsModule `json:"sponsorCollaboratorsModule,omitempty"`
	Conditions        *ConditionsModule           `json:"conditionsModule,omitempty"`
	Design            *DesignModule               `json:"designModule,omitempty"`
	Eligibility       *EligibilityModule          `json:"eligibilityModule,omitempty"`
	ContactsLocations *ContactsLocationsModule    `json:"contactsLocationsModule,omitempty"`
	ArmsInterventions *ArmsInterventionsModule    `json:"armsInterventionsModule,omitempty"`
}

// IdentificationModule holds the study identifiers and titles.
type IdentificationModule struct {
	NCTID         string `json:"nctId"`
	BriefTitle    string `json:"briefTitle"`
	OfficialTitle string `json:"officialTitle"`
}

// StatusModule holds the lifecycle state and milestone dates. Dates are the
// API's partial ISO strings ("2021", "2021-03", or "2021-03-15").
type StatusModule struct {
	OverallStatus  string      `json:"overallStatus"`
	StartDate      *DateStruct `json:"startDateStruct,omitempty"`
	CompletionDate *DateStruct `json:"completionDateStruct,omitempty"`
}

// DateStruct wraps a partial ISO date string.
type DateStruct struct {
	Date string `json:"date"`
}

// SponsorCollaboratorsModule holds sponsor information.
type SponsorCollaboratorsModule struct {
	LeadSponsor *Sponsor `json:"leadSponsor,omitempty"`
}

// Sponsor identifies a sponsoring organization. Class is the agency class
// ("INDUSTRY", "NIH", "OTHER", ...).
type Sponsor struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// ConditionsModule lists the conditions the study addresses.
type ConditionsModule struct {
	Conditions []string `json:"conditions"`
}

// DesignModule holds the study design facets.
type DesignModule struct {
	StudyType  string          `json:"studyType"`
	Phases     []string        `json:"phases"`
	Enrollment *EnrollmentInfo `json:"enrollmentInfo,omitempty"`
}

// EnrollmentInfo holds the declared enrollment target.
type EnrollmentInfo struct {
	Count int    `json:"count"`
	Type  string `json:"type"`
}

// EligibilityModule holds the demographic constraints. Age bounds are strings
// of the form "<number> <unit>", e.g. "18 Years" or "6 Months"; an empty
// string means unconstrained in that direction.
type EligibilityModule struct {
	Sex               string `json:"sex"`
	MinimumAge        string `json:"minimumAge"`
	MaximumAge        string `json:"maximumAge"`
	HealthyVolunteers *bool  `json:"healthyVolunteers,omitempty"`
	Criteria          string `json:"eligibilityCriteria"`
}

// ContactsLocationsModule holds the study sites and central contacts.
type ContactsLocationsModule struct {
	CentralContacts []Contact `json:"centralContacts"`
	Locations       []Site    `json:"locations"`
}

// Contact is a central study contact.
type Contact struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Site is one study location.
type Site struct {
	Facility string `json:"facility"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country"`
}

// ArmsInterventionsModule lists the study interventions.
type ArmsInterventionsModule struct {
	Interventions []Intervention `json:"interventions"`
}

// Intervention is one study intervention with its type ("DRUG", "DEVICE", ...).
type Intervention struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// UnknownLabel is the bucket label used when a facet is absent.
const UnknownLabel = "Unknown"

// NCTID returns the study's NCT identifier, or "" if unknown.
func (s Study) NCTID() string {
	if s.Protocol.Identification == nil {
		return ""
	}
	return s.Protocol.Identification.NCTID
}

// Title returns the brief title, falling back to the official title.
func (s Study) Title() string {
	id := s.Protocol.Identification
	if id == nil {
		return ""
	}
	if id.BriefTitle != "" {
		return id.BriefTitle
	}
	return id.OfficialTitle
}

// OverallStatus returns the lifecycle state, or UnknownLabel.
func (s Study) OverallStatus() string {
	if s.Protocol.Status == nil || s.Protocol.Status.OverallStatus == "" {
		return UnknownLabel
	}
	return s.Protocol.Status.OverallStatus
}

// StartDate returns the partial ISO start date string, or "".
func (s Study) StartDate() string {
	if s.Protocol.Status == nil || s.Protocol.Status.StartDate == nil {
		return ""
	}
	return s.Protocol.Status.StartDate.Date
}

// SponsorName returns the lead sponsor's name, or "".
func (s Study) SponsorName() string {
	sp := s.Protocol.Sponsor
	if sp == nil || sp.LeadSponsor == nil {
		return ""
	}
	return sp.LeadSponsor.Name
}

// SponsorClass returns the lead sponsor's agency class, or UnknownLabel.
func (s Study) SponsorClass() string {
	sp := s.Protocol.Sponsor
	if sp == nil || sp.LeadSponsor == nil || sp.LeadSponsor.Class == "" {
		return UnknownLabel
	}
	return sp.LeadSponsor.Class
}

// Conditions returns the condition strings, or nil.
func (s Study) Conditions() []string {
	if s.Protocol.Conditions == nil {
		return nil
	}
	return s.Protocol.Conditions.Conditions
}

// StudyType returns the design's study type, or UnknownLabel.
func (s Study) StudyType() string {
	if s.Protocol.Design == nil || s.Protocol.Design.StudyType == "" {
		return UnknownLabel
	}
	return s.Protocol.Design.StudyType
}

// Phases returns the declared phase labels, or nil.
func (s Study) Phases() []string {
	if s.Protocol.Design == nil {
		return nil
	}
	return s.Protocol.Design.Phases
}

// EnrollmentCount returns the declared enrollment target, or 0.
func (s Study) EnrollmentCount() int {
	d := s.Protocol.Design
	if d == nil || d.Enrollment == nil {
		return 0
	}
	return d.Enrollment.Count
}

// Eligibility returns the eligibility module, or nil when the study carries
// no eligibility data at all.
func (s Study) Eligibility() *EligibilityModule {
	return s.Protocol.Eligibility
}

// Sites returns the study locations, or nil.
func (s Study) Sites() []Site {
	if s.Protocol.ContactsLocations == nil {
		return nil
	}
	return s.Protocol.ContactsLocations.Locations
}

// CentralContact returns the first central contact, or nil.
func (s Study) CentralContact() *Contact {
	cl := s.Protocol.ContactsLocations
	if cl == nil || len(cl.CentralContacts) == 0 {
		return nil
	}
	return &cl.CentralContacts[0]
}

// Interventions returns the study interventions, or nil.
func (s Study) Interventions() []Intervention {
	if s.Protocol.ArmsInterventions == nil {
		return nil
	}
	return s.Protocol.ArmsInterventions.Interventions
}
