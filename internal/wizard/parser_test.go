package wizard

import (
	"reflect"
	"testing"

	"dealerchat/internal/models"
)

func TestParseAdType(t *testing.T) {
	cases := []struct {
		input string
		want  models.AdType
	}{
		{"single vehicle", models.AdTypeSingle},
		{"I want a Carousel please", models.AdTypeCarousel},
		{"SINGLE", models.AdTypeSingle},
		{"neither of those", ""},
	}

	for _, tc := range cases {
		got := Parse(models.StepAdType, tc.input, models.WizardState{Step: models.StepAdType})
		if got.AdType != tc.want {
			t.Errorf("Parse(AdType, %q): got %q want %q", tc.input, got.AdType, tc.want)
		}
	}
}

func TestParseBudget(t *testing.T) {
	got := Parse(models.StepBudget, "$50 daily", models.WizardState{Step: models.StepBudget})
	if got.Budget.Amount != 50 || got.Budget.Type != models.BudgetTypeDaily {
		t.Fatalf("expected $50 daily, got %+v", got.Budget)
	}

	got = Parse(models.StepBudget, "$200", models.WizardState{Step: models.StepBudget})
	if got.Budget.Amount != 200 || got.Budget.Type != models.BudgetTypeLifetime {
		t.Fatalf("expected $200 lifetime default, got %+v", got.Budget)
	}

	got = Parse(models.StepBudget, "fifty bucks", models.WizardState{Step: models.StepBudget})
	if got.Budget.Amount != 0 || got.Budget.Type != "" {
		t.Fatalf("expected no budget update, got %+v", got.Budget)
	}
}

func TestParseTargetingLists(t *testing.T) {
	got := Parse(models.StepTargetingLocations, " Philadelphia , Allentown,Reading ", models.WizardState{})
	want := []string{"Philadelphia", "Allentown", "Reading"}
	if !reflect.DeepEqual(got.Targeting.Locations, want) {
		t.Fatalf("locations: got %v want %v", got.Targeting.Locations, want)
	}

	// Order preserved, duplicates kept.
	got = Parse(models.StepTargetingInterests, "trucks, SUVs, trucks", models.WizardState{})
	want = []string{"trucks", "SUVs", "trucks"}
	if !reflect.DeepEqual(got.Targeting.Interests, want) {
		t.Fatalf("interests: got %v want %v", got.Targeting.Interests, want)
	}
}

func TestParseAdCopyVerbatim(t *testing.T) {
	got := Parse(models.StepHeadline, "  Big Summer Sale!  ", models.WizardState{})
	if got.AdCopy.Headline != "Big Summer Sale!" {
		t.Fatalf("headline: got %q", got.AdCopy.Headline)
	}

	got = Parse(models.StepPrimaryText, "Every Explorer $2000 off", models.WizardState{})
	if got.AdCopy.PrimaryText != "Every Explorer $2000 off" {
		t.Fatalf("primary text: got %q", got.AdCopy.PrimaryText)
	}
}

func TestParseDestination(t *testing.T) {
	cases := []struct {
		input string
		want  models.AdDestination
	}{
		{"send them to the VSP", models.DestinationVSP},
		{"messenger please", models.DestinationMessenger},
		{"our Website", models.DestinationWebsite},
		{"facebook", ""},
	}

	for _, tc := range cases {
		got := Parse(models.StepDestination, tc.input, models.WizardState{})
		if got.AdCopy.Destination != tc.want {
			t.Errorf("Parse(Destination, %q): got %q want %q", tc.input, got.AdCopy.Destination, tc.want)
		}
	}
}

func TestParseIsPure(t *testing.T) {
	original := models.WizardState{Step: models.StepBudget}
	_ = Parse(models.StepBudget, "$75 daily", original)
	if original.Budget.Amount != 0 {
		t.Fatal("Parse mutated its input state")
	}
}
