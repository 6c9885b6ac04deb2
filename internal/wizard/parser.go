package wizard

import (
	"regexp"
	"strconv"
	"strings"

	"dealerchat/internal/models"
)

var budgetAmountPattern = regexp.MustCompile(`\$(\d+)`)

// Parse extracts the current step's fields from free text and returns a new
// state with them applied. It never mutates its input and never fails:
// unparseable input simply leaves the state unchanged, and the transition
// rules decide whether the step advances.
func Parse(step models.WizardStep, rawInput string, state models.WizardState) models.WizardState {
	input := strings.TrimSpace(rawInput)
	lower := strings.ToLower(input)

	switch step {
	case models.StepAdType:
		if strings.Contains(lower, "single") {
			state.AdType = models.AdTypeSingle
		} else if strings.Contains(lower, "carousel") {
			state.AdType = models.AdTypeCarousel
		}

	case models.StepBudget:
		if m := budgetAmountPattern.FindStringSubmatch(input); m != nil {
			amount, err := strconv.Atoi(m[1])
			if err == nil {
				state.Budget.Amount = amount
				if strings.Contains(lower, "daily") {
					state.Budget.Type = models.BudgetTypeDaily
				} else {
					state.Budget.Type = models.BudgetTypeLifetime
				}
			}
		}

	case models.StepTargetingAge:
		// Stored raw; the range format is enforced at transition time.
		state.Targeting.AgeRange = input

	case models.StepTargetingLocations:
		if list := splitList(input); len(list) > 0 {
			state.Targeting.Locations = list
		}

	case models.StepTargetingInterests:
		if list := splitList(input); len(list) > 0 {
			state.Targeting.Interests = list
		}

	case models.StepHeadline:
		state.AdCopy.Headline = input

	case models.StepPrimaryText:
		state.AdCopy.PrimaryText = input

	case models.StepDescription:
		state.AdCopy.Description = input

	case models.StepCallToAction:
		state.AdCopy.CallToAction = input

	case models.StepDestination:
		switch {
		case strings.Contains(lower, "vsp"):
			state.AdCopy.Destination = models.DestinationVSP
		case strings.Contains(lower, "messenger"):
			state.AdCopy.Destination = models.DestinationMessenger
		case strings.Contains(lower, "website"):
			state.AdCopy.Destination = models.DestinationWebsite
		}

	case models.StepNotStarted, models.StepVehicleSelection, models.StepPreview, models.StepComplete:
		// Nothing to extract: vehicle selection happens out of band and the
		// preview/complete steps only consume confirmation keywords.
	}

	return state
}

// splitList splits comma-separated input into trimmed segments, preserving
// the user's order and duplicates.
func splitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
