package wizard

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dealerchat/internal/ai"
	"dealerchat/internal/models"
)

// Intent is the two-way routing decision made mid-wizard.
type Intent string

const (
	IntentWizardAnswer    Intent = "wizard_answer"
	IntentNaturalQuestion Intent = "natural_question"
)

const classifierSystemPrompt = `You are an intent classifier inside a dealership ad-creation assistant.
The user is in the middle of a step-by-step ad creation wizard.
Decide whether their message answers the current wizard question or is an unrelated question.
Respond with exactly one word: wizard_answer or natural_question. No other text.`

// Classifier routes mid-wizard input via a single-shot LLM call. Failures
// fall back to wizard_answer after one retry so the wizard keeps moving and
// the persisted state is never dropped.
type Classifier struct {
	llm        ai.Completer
	perAttempt time.Duration
}

func NewClassifier(llm ai.Completer, perAttempt time.Duration) *Classifier {
	if perAttempt <= 0 {
		perAttempt = 20 * time.Second
	}
	return &Classifier{llm: llm, perAttempt: perAttempt}
}

func (c *Classifier) Classify(ctx context.Context, state models.WizardState, rawInput string) Intent {
	prompt := classifierUserPrompt(state, rawInput)

	for attempt := 0; attempt < 2; attempt++ {
		// Each attempt gets its own deadline so a timed-out first call does
		// not use up the retry as well.
		actx, cancel := context.WithTimeout(ctx, c.perAttempt)
		raw, err := c.llm.Complete(actx, classifierSystemPrompt, prompt)
		cancel()
		if err != nil {
			log.Printf("intent classification attempt %d failed: %v", attempt+1, err)
			continue
		}
		label := strings.ToLower(strings.TrimSpace(raw))
		if strings.Contains(label, string(IntentNaturalQuestion)) {
			return IntentNaturalQuestion
		}
		return IntentWizardAnswer
	}

	// Fail toward forward progress.
	return IntentWizardAnswer
}

func classifierUserPrompt(state models.WizardState, rawInput string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current wizard question: %s\n", Prompt(state.Step))
	fmt.Fprintf(&b, "Current step: %s\n", state.Step)
	fmt.Fprintf(&b, "Fields collected so far: %s\n", summarizeFilled(state))
	fmt.Fprintf(&b, "User message: %s", rawInput)
	return b.String()
}

// summarizeFilled renders a compact list of the fields already collected,
// used only as classifier context.
func summarizeFilled(state models.WizardState) string {
	var parts []string
	if state.AdType != "" {
		parts = append(parts, "ad type="+string(state.AdType))
	}
	if state.SelectedVehicle != nil {
		parts = append(parts, fmt.Sprintf("vehicle=%d %s %s", state.SelectedVehicle.Year, state.SelectedVehicle.Make, state.SelectedVehicle.Model))
	}
	if state.Budget.Amount > 0 {
		parts = append(parts, fmt.Sprintf("budget=$%d %s", state.Budget.Amount, state.Budget.Type))
	}
	if state.Targeting.AgeRange != "" {
		parts = append(parts, "ages="+state.Targeting.AgeRange)
	}
	if len(state.Targeting.Locations) > 0 {
		parts = append(parts, "locations="+strings.Join(state.Targeting.Locations, "/"))
	}
	if len(state.Targeting.Interests) > 0 {
		parts = append(parts, "interests="+strings.Join(state.Targeting.Interests, "/"))
	}
	if state.AdCopy.Headline != "" {
		parts = append(parts, "headline set")
	}
	if state.AdCopy.PrimaryText != "" {
		parts = append(parts, "primary text set")
	}
	if state.AdCopy.Description != "" {
		parts = append(parts, "description set")
	}
	if state.AdCopy.CallToAction != "" {
		parts = append(parts, "call to action set")
	}
	if state.AdCopy.Destination != "" {
		parts = append(parts, "destination="+string(state.AdCopy.Destination))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

var inventoryKeywords = []string{"how many", "show me", "find", "search for", "what", "list"}

// looksLikeInventoryQuery is the cheap sub-routing sniff applied after a
// natural_question classification: inventory-looking questions go to the NL
// query engine, everything else gets a conversational reply.
func looksLikeInventoryQuery(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range inventoryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
