package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealerchat/internal/ai"
	"dealerchat/internal/models"
)

// fakeLLM returns scripted completions in call order. When the script runs
// out it keeps returning the last entry.
type fakeLLM struct {
	replies []string
	errs    []error

	prompts   []string
	chatReply string
	chatErr   error
	chatCalls int
}

var _ ai.Completer = (*fakeLLM)(nil)

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, user)

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	reply := ""
	if len(f.replies) > 0 {
		if i >= len(f.replies) {
			i = len(f.replies) - 1
		}
		reply = f.replies[i]
	}
	return reply, err
}

func (f *fakeLLM) Chat(ctx context.Context, msgs []ai.Message) (string, error) {
	f.chatCalls++
	return f.chatReply, f.chatErr
}

func TestClassifyLabelParsing(t *testing.T) {
	cases := []struct {
		reply string
		want  Intent
	}{
		{"wizard_answer", IntentWizardAnswer},
		{"  Natural_Question\n", IntentNaturalQuestion},
		{"I believe this is a natural_question.", IntentNaturalQuestion},
		{"banana", IntentWizardAnswer},
	}

	for _, tc := range cases {
		llm := &fakeLLM{replies: []string{tc.reply}}
		c := NewClassifier(llm, time.Second)
		got := c.Classify(context.Background(), models.WizardState{Step: models.StepBudget}, "$50")
		if got != tc.want {
			t.Errorf("Classify with reply %q: got %s want %s", tc.reply, got, tc.want)
		}
		if len(llm.prompts) != 1 {
			t.Errorf("Classify with reply %q: %d llm calls, want 1", tc.reply, len(llm.prompts))
		}
	}
}

func TestClassifyRetriesOnceThenFallsBack(t *testing.T) {
	boom := errors.New("llm unavailable")
	llm := &fakeLLM{errs: []error{boom, boom}}
	c := NewClassifier(llm, time.Second)

	got := c.Classify(context.Background(), models.WizardState{Step: models.StepBudget}, "$50")
	if got != IntentWizardAnswer {
		t.Fatalf("got %s, want wizard_answer fallback", got)
	}
	if len(llm.prompts) != 2 {
		t.Fatalf("made %d llm calls, want 2", len(llm.prompts))
	}
}

func TestClassifyRetryRecovers(t *testing.T) {
	llm := &fakeLLM{
		errs:    []error{errors.New("transient")},
		replies: []string{"", "natural_question"},
	}
	c := NewClassifier(llm, time.Second)

	got := c.Classify(context.Background(), models.WizardState{Step: models.StepTargetingAge}, "how many SUVs do you have?")
	if got != IntentNaturalQuestion {
		t.Fatalf("got %s, want natural_question from retry", got)
	}
}

// timeoutThenAnswerLLM burns the first attempt's full deadline, then records
// whether the retry arrived with a live context.
type timeoutThenAnswerLLM struct {
	calls           int
	retryCtxExpired bool
}

var _ ai.Completer = (*timeoutThenAnswerLLM)(nil)

func (f *timeoutThenAnswerLLM) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.calls == 1 {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.retryCtxExpired = ctx.Err() != nil
	return "natural_question", nil
}

func (f *timeoutThenAnswerLLM) Chat(ctx context.Context, msgs []ai.Message) (string, error) {
	return "", errors.New("not used")
}

func TestClassifyRetryGetsFreshDeadline(t *testing.T) {
	llm := &timeoutThenAnswerLLM{}
	c := NewClassifier(llm, 20*time.Millisecond)

	got := c.Classify(context.Background(), models.WizardState{Step: models.StepBudget}, "how many SUVs do you have?")
	if got != IntentNaturalQuestion {
		t.Fatalf("got %s, want natural_question from retry", got)
	}
	if llm.calls != 2 {
		t.Fatalf("made %d llm calls, want 2", llm.calls)
	}
	if llm.retryCtxExpired {
		t.Fatal("retry ran with an already-expired deadline")
	}
}

func TestLooksLikeInventoryQuery(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"how many red explorers do you have", true},
		{"Show me black SUVs", true},
		{"what is the cheapest truck", true},
		{"thanks, that helps", false},
		{"why do ads need a budget", false},
	}

	for _, tc := range cases {
		if got := looksLikeInventoryQuery(tc.input); got != tc.want {
			t.Errorf("looksLikeInventoryQuery(%q): got %v want %v", tc.input, got, tc.want)
		}
	}
}
