// internal/models/wizard.go
package models

// WizardStep is the position in the fixed ad-creation sequence. The zero
// value means the wizard has not been started for the session.
type WizardStep int

const (
	StepNotStarted WizardStep = iota
	StepAdType
	StepVehicleSelection
	StepBudget
	StepTargetingAge
	StepTargetingLocations
	StepTargetingInterests
	StepHeadline
	StepPrimaryText
	StepDescription
	StepCallToAction
	StepDestination
	StepPreview
	StepComplete
)

func (s WizardStep) String() string {
	switch s {
	case StepNotStarted:
		return "not_started"
	case StepAdType:
		return "ad_type"
	case StepVehicleSelection:
		return "vehicle_selection"
	case StepBudget:
		return "budget"
	case StepTargetingAge:
		return "targeting_age"
	case StepTargetingLocations:
		return "targeting_locations"
	case StepTargetingInterests:
		return "targeting_interests"
	case StepHeadline:
		return "headline"
	case StepPrimaryText:
		return "primary_text"
	case StepDescription:
		return "description"
	case StepCallToAction:
		return "call_to_action"
	case StepDestination:
		return "destination"
	case StepPreview:
		return "preview"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

type AdType string

const (
	AdTypeSingle   AdType = "single"
	AdTypeCarousel AdType = "carousel"
)

type BudgetType string

const (
	BudgetTypeDaily    BudgetType = "daily"
	BudgetTypeLifetime BudgetType = "lifetime"
)

type AdDestination string

const (
	DestinationVSP       AdDestination = "VSP"
	DestinationMessenger AdDestination = "Messenger"
	DestinationWebsite   AdDestination = "Website"
)

type Budget struct {
	Amount int        `json:"amount,omitempty"`
	Type   BudgetType `json:"type,omitempty"`
}

type Targeting struct {
	AgeRange  string   `json:"age_range,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

type AdCopy struct {
	Headline     string        `json:"headline,omitempty"`
	PrimaryText  string        `json:"primary_text,omitempty"`
	Description  string        `json:"description,omitempty"`
	CallToAction string        `json:"call_to_action,omitempty"`
	Destination  AdDestination `json:"destination,omitempty"`
}

// WizardState is the form being filled out across chat turns. Exactly one
// state is live per session; it is treated as an immutable value by the
// wizard core, with each turn producing a new state that is persisted via
// a version-checked upsert.
type WizardState struct {
	Step            WizardStep `json:"step"`
	AdType          AdType     `json:"ad_type,omitempty"`
	SelectedVehicle *Vehicle   `json:"selected_vehicle,omitempty"`
	Budget          Budget     `json:"budget"`
	Targeting       Targeting  `json:"targeting"`
	AdCopy          AdCopy     `json:"ad_copy"`
	IsComplete      bool       `json:"is_complete"`
	IsPreviewMode   bool       `json:"is_preview_mode"`

	// Version is the optimistic-concurrency counter of the stored row.
	// Zero means the state has never been persisted.
	Version int `json:"-"`
}

// InProgress reports whether the session is mid-wizard, i.e. the wizard has
// been started and has not finished.
func (s WizardState) InProgress() bool {
	return s.Step > StepNotStarted && !s.IsComplete
}

// CopyComplete reports whether every ad-copy field required before the
// preview step has been collected.
func (s WizardState) CopyComplete() bool {
	return s.AdCopy.Headline != "" &&
		s.AdCopy.PrimaryText != "" &&
		s.AdCopy.Description != "" &&
		s.AdCopy.CallToAction != "" &&
		s.AdCopy.Destination != ""
}
