package wizard

import (
	"regexp"
	"strings"

	"dealerchat/internal/models"
)

var ageRangePattern = regexp.MustCompile(`^\d+\s*-\s*\d+$`)

// Next returns the step the wizard should be on after the user's input has
// been parsed into state. When the step's predicate fails the same step is
// returned and the orchestrator re-prompts; malformed input is absorbed as a
// no-op rather than raised as an error, so no step can ever be skipped.
func Next(step models.WizardStep, rawInput string, state models.WizardState) models.WizardStep {
	input := strings.TrimSpace(rawInput)
	lower := strings.ToLower(input)

	switch step {
	case models.StepNotStarted:
		return step

	case models.StepAdType:
		if state.AdType != "" {
			return models.StepVehicleSelection
		}

	case models.StepVehicleSelection:
		// Advances only via the out-of-band vehicle-card selection; free
		// text on this step is a new inventory search, never an answer.
		return step

	case models.StepBudget:
		if state.Budget.Amount > 0 {
			return models.StepTargetingAge
		}

	case models.StepTargetingAge:
		if ageRangePattern.MatchString(input) {
			return models.StepTargetingLocations
		}

	case models.StepTargetingLocations:
		if input != "" {
			return models.StepTargetingInterests
		}

	case models.StepTargetingInterests:
		if input != "" {
			return models.StepHeadline
		}

	case models.StepHeadline:
		if input != "" {
			return models.StepPrimaryText
		}

	case models.StepPrimaryText:
		if input != "" {
			return models.StepDescription
		}

	case models.StepDescription:
		if input != "" {
			return models.StepCallToAction
		}

	case models.StepCallToAction:
		if input != "" {
			return models.StepDestination
		}

	case models.StepDestination:
		// The preview step renders every copy field, so all of them must be
		// collected before the wizard shows it.
		if state.AdCopy.Destination != "" && state.CopyComplete() {
			return models.StepPreview
		}

	case models.StepPreview:
		if strings.Contains(lower, "launch") || strings.Contains(lower, "yes") || strings.Contains(lower, "create") {
			return models.StepComplete
		}

	case models.StepComplete:
		return step
	}

	return step
}
