// Package wizard implements the conversational ad-creation flow: the step
// registry, the free-text parser, the transition rules, the intent
// classifier, and the per-message orchestrator that ties them together.
package wizard

import "dealerchat/internal/models"

// Prompt returns the question asked at a step. The switch is exhaustive over
// the step enum so adding a step fails to compile until it gets a prompt.
func Prompt(step models.WizardStep) string {
	switch step {
	case models.StepNotStarted:
		return `Say "create ad" whenever you want to start building an ad.`
	case models.StepAdType:
		return "What type of ad would you like to create? You can pick a single vehicle ad or a carousel ad."
	case models.StepVehicleSelection:
		return `Which vehicle should this ad feature? Search the inventory (for example "red Explorer") and tap a vehicle card to select it.`
	case models.StepBudget:
		return "What budget should we set? Enter an amount like $50 and tell me whether it is daily or lifetime."
	case models.StepTargetingAge:
		return "What age range should we target? Use a range like 25-65."
	case models.StepTargetingLocations:
		return "Which locations should the ad target? List cities or regions separated by commas."
	case models.StepTargetingInterests:
		return "Any interests we should target? List them separated by commas."
	case models.StepHeadline:
		return "What headline should the ad use?"
	case models.StepPrimaryText:
		return "What primary text should appear with the ad?"
	case models.StepDescription:
		return "Add a short description for the ad."
	case models.StepCallToAction:
		return "What should the call-to-action button say?"
	case models.StepDestination:
		return "Where should the ad send people? VSP, Messenger, or Website."
	case models.StepPreview:
		return `Here is a preview of your ad. Reply "launch" when you are ready to create it.`
	case models.StepComplete:
		return "Your ad has been created!"
	}
	return ""
}
