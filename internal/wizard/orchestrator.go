package wizard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"dealerchat/internal/ai"
	"dealerchat/internal/interfaces"
	"dealerchat/internal/models"
	"dealerchat/internal/nlquery"
)

// VehicleSelectPrefix marks the out-of-band message sent when the user taps
// a vehicle card; the rest of the message is the stock number.
const VehicleSelectPrefix = "SELECT_VEHICLE:"

const genericErrorReply = "Sorry, I encountered an error handling that. Please try again."

const conversationalSystemPrompt = `You are a helpful assistant for a car dealership's advertising platform.
Answer the user's question briefly and helpfully. Do not invent inventory data.`

// Orchestrator dispatches each incoming chat message: special triggers
// first, then intent classification when mid-wizard, then either the wizard
// step handling or the inventory/conversational paths. All failures are
// converted to a user-facing chat reply at this boundary.
type Orchestrator struct {
	convs      interfaces.ConversationRepository
	vehicles   interfaces.VehicleRepository
	ads        interfaces.AdRepository
	llm        ai.Completer
	classifier *Classifier
	queries    *nlquery.Engine
	llmTimeout time.Duration
	locks      *sessionLocks
}

func NewOrchestrator(
	convs interfaces.ConversationRepository,
	vehicles interfaces.VehicleRepository,
	ads interfaces.AdRepository,
	llm ai.Completer,
	queries *nlquery.Engine,
	llmTimeout time.Duration,
) *Orchestrator {
	if llmTimeout <= 0 {
		llmTimeout = 20 * time.Second
	}
	return &Orchestrator{
		convs:      convs,
		vehicles:   vehicles,
		ads:        ads,
		llm:        llm,
		classifier: NewClassifier(llm, llmTimeout),
		queries:    queries,
		llmTimeout: llmTimeout,
		locks:      newSessionLocks(),
	}
}

// HandleMessage processes one chat turn end to end: resolve the session,
// load the persisted wizard state, dispatch, persist, reply. It never
// returns an error; every failure becomes an assistant message.
func (o *Orchestrator) HandleMessage(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	session, err := o.convs.GetOrCreateSession(ctx, req.CustomerID, req.SessionID)
	if err != nil {
		log.Printf("get or create session for customer %s: %v", req.CustomerID, err)
		return models.ChatResponse{Answer: genericErrorReply, SessionID: req.SessionID}
	}

	unlock := o.locks.lock(session.ID)
	defer unlock()

	state := models.WizardState{}
	if stored, err := o.convs.LoadWizardState(ctx, session.ID); err != nil {
		log.Printf("load wizard state for session %s: %v", session.ID, err)
		return models.ChatResponse{Answer: genericErrorReply, SessionID: session.ID}
	} else if stored != nil {
		state = *stored
	}

	o.recordMessage(ctx, session, models.RoleUser, req.Question)

	resp := o.dispatch(ctx, session, state, req)
	resp.SessionID = session.ID

	o.recordMessage(ctx, session, models.RoleAssistant, resp.Answer)

	if req.GenerateTitle {
		o.generateTitle(ctx, session, req.Question)
	}

	return resp
}

func (o *Orchestrator) dispatch(ctx context.Context, session *models.ConversationSession, state models.WizardState, req models.ChatRequest) models.ChatResponse {
	question := strings.TrimSpace(req.Question)
	lower := strings.ToLower(question)

	// Special triggers take priority over everything, including an active
	// wizard run.
	switch {
	case strings.HasPrefix(question, VehicleSelectPrefix):
		return o.handleVehicleSelect(ctx, session, state, question, req.ConversationHistory)
	case isDemoRequest(lower):
		return o.handleDemo()
	case isCreateAdTrigger(lower) && state.Step != models.StepPreview:
		// At the preview step "create" keywords confirm the launch rather
		// than starting a new run.
		return o.startWizard(ctx, session, state)
	}

	if state.InProgress() {
		// Vehicle search bypasses classification: free text on the
		// selection step is always a new inventory search.
		if state.Step == models.StepVehicleSelection {
			return o.handleVehicleSearch(ctx, state, question)
		}

		// Classification only applies past the first question; the ad-type
		// answer is cheap to recognize directly. The classifier bounds its
		// own attempts.
		if state.Step > models.StepAdType {
			intent := o.classifier.Classify(ctx, state, question)

			if intent == IntentNaturalQuestion {
				if looksLikeInventoryQuery(lower) {
					return o.handleInventoryQuestion(ctx, session, &state, question)
				}
				return o.handleConversational(ctx, session, &state, question)
			}
		}
		return o.handleWizardAnswer(ctx, session, state, question)
	}

	if looksLikeInventoryQuery(lower) {
		return o.handleInventoryQuestion(ctx, session, nil, question)
	}
	return o.handleConversational(ctx, session, nil, question)
}

// startWizard resets the session to a fresh run at the ad-type step. The
// stored row's version carries over so the upsert remains version-checked.
func (o *Orchestrator) startWizard(ctx context.Context, session *models.ConversationSession, prev models.WizardState) models.ChatResponse {
	fresh := models.WizardState{Step: models.StepAdType, Version: prev.Version}

	saved, err := o.convs.SaveWizardState(ctx, session.ID, session.CustomerID, fresh)
	if err != nil {
		log.Printf("save wizard state for session %s: %v", session.ID, err)
		return models.ChatResponse{Answer: genericErrorReply}
	}

	return models.ChatResponse{
		Answer:     "Let's create your ad! " + Prompt(models.StepAdType),
		WizardStep: stepInfo(saved),
	}
}

func (o *Orchestrator) handleWizardAnswer(ctx context.Context, session *models.ConversationSession, state models.WizardState, question string) models.ChatResponse {
	parsed := Parse(state.Step, question, state)
	next := Next(state.Step, question, parsed)

	if next == state.Step {
		// Invalid input is absorbed as a no-op: same step, same question,
		// nothing persisted.
		return models.ChatResponse{
			Answer:     "Please provide a valid response. " + Prompt(state.Step),
			WizardStep: stepInfo(state),
		}
	}

	newState := parsed
	newState.Step = next

	if next == models.StepComplete {
		newState.IsComplete = true
		// The ad row is written before the state so a failed launch leaves
		// the wizard resumable at the preview step.
		if err := o.launchAd(ctx, session, newState); err != nil {
			log.Printf("launch ad for session %s: %v", session.ID, err)
			return models.ChatResponse{
				Answer:     "I couldn't create the ad just now. Please try launching again.",
				WizardStep: stepInfo(state),
			}
		}
	}

	saved, err := o.convs.SaveWizardState(ctx, session.ID, session.CustomerID, newState)
	if err != nil {
		if errors.Is(err, interfaces.ErrVersionConflict) {
			log.Printf("wizard state conflict for session %s", session.ID)
		} else {
			log.Printf("save wizard state for session %s: %v", session.ID, err)
		}
		return models.ChatResponse{Answer: genericErrorReply, WizardStep: stepInfo(state)}
	}

	resp := models.ChatResponse{WizardStep: stepInfo(saved)}
	switch next {
	case models.StepPreview:
		resp.Answer = Prompt(models.StepPreview)
		resp.ShowPreview = true
		resp.PreviewData = buildPreview(saved)
	case models.StepComplete:
		resp.Answer = "🎉 " + Prompt(models.StepComplete) + " You can track it from your dashboard."
	default:
		resp.Answer = Prompt(next)
	}
	return resp
}

// handleVehicleSelect processes the vehicle-card tap. The ad-type question
// may already have been answered before the search was started, so the flow
// skips straight to budget when an answer exists in the state or in the
// conversation history, and asks the ad-type question otherwise.
func (o *Orchestrator) handleVehicleSelect(ctx context.Context, session *models.ConversationSession, state models.WizardState, question string, recentTurns []models.ChatTurn) models.ChatResponse {
	stock := strings.TrimSpace(strings.TrimPrefix(question, VehicleSelectPrefix))

	// Once a vehicle is chosen it stays for the rest of the run. A card tap
	// from a mid-wizard inventory detour must not rewind the flow or swap
	// the vehicle.
	if state.SelectedVehicle != nil || (state.InProgress() && state.Step > models.StepVehicleSelection) {
		answer := `This ad already has a vehicle selected. Say "create ad" to start a new ad with a different vehicle.`
		if v := state.SelectedVehicle; v != nil {
			answer = fmt.Sprintf("This ad already features the %d %s %s. Say \"create ad\" to start a new ad with a different vehicle.",
				v.Year, v.Make, v.Model)
		}
		resp := models.ChatResponse{Answer: answer}
		if state.InProgress() {
			resp.WizardStep = stepInfo(state)
		}
		return resp
	}

	vehicle, err := o.vehicles.GetByStockNumber(ctx, stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			resp := models.ChatResponse{
				Answer: fmt.Sprintf("I couldn't find a vehicle with stock number %s. Try searching again.", stock),
			}
			if state.InProgress() {
				resp.WizardStep = stepInfo(state)
			}
			return resp
		}
		log.Printf("lookup vehicle %s: %v", stock, err)
		return models.ChatResponse{Answer: genericErrorReply}
	}

	state.SelectedVehicle = vehicle
	if state.AdType == "" {
		state.AdType = adTypeFromTurns(recentTurns, o.storedUserTurns(ctx, session.ID))
	}
	if state.AdType != "" {
		state.Step = models.StepBudget
	} else {
		state.Step = models.StepAdType
	}

	saved, err := o.convs.SaveWizardState(ctx, session.ID, session.CustomerID, state)
	if err != nil {
		log.Printf("save wizard state for session %s: %v", session.ID, err)
		return models.ChatResponse{Answer: genericErrorReply}
	}

	answer := fmt.Sprintf("Great choice! The %d %s %s is selected for your ad. %s",
		vehicle.Year, vehicle.Make, vehicle.Model, Prompt(saved.Step))
	return models.ChatResponse{Answer: answer, WizardStep: stepInfo(saved)}
}

func (o *Orchestrator) handleVehicleSearch(ctx context.Context, state models.WizardState, question string) models.ChatResponse {
	filter := nlquery.BuildVehicleFilter(question)
	if filter.IsEmpty() {
		return models.ChatResponse{
			Answer:     "Tell me a bit about the vehicle you're looking for, like \"red Explorer\" or \"black SUV\".",
			WizardStep: stepInfo(state),
		}
	}

	results, err := o.vehicles.Search(ctx, filter)
	if err != nil {
		log.Printf("fast-path vehicle search: %v", err)
		return models.ChatResponse{Answer: genericErrorReply, WizardStep: stepInfo(state)}
	}

	resp := models.ChatResponse{SearchResults: results, WizardStep: stepInfo(state)}
	if len(results) == 0 {
		resp.Answer = "I didn't find any vehicles matching that. Try different keywords."
	} else {
		resp.Answer = fmt.Sprintf("I found %d matching vehicle(s). Tap one to use it in your ad.", len(results))
	}
	return resp
}

// handleInventoryQuestion runs the NL query pipeline. When resume is
// non-nil the session is mid-wizard: the state is returned untouched so the
// wizard picks up where it left off on the next turn.
func (o *Orchestrator) handleInventoryQuestion(ctx context.Context, session *models.ConversationSession, resume *models.WizardState, question string) models.ChatResponse {
	history, err := o.convs.GetConversationHistory(ctx, session.ID, 6)
	if err != nil {
		log.Printf("load history for session %s: %v", session.ID, err)
	}

	cctx, cancel := o.boundedCtx(ctx)
	result, err := o.queries.Answer(cctx, question, history)
	cancel()
	if err != nil {
		log.Printf("nl query for session %s: %v", session.ID, err)
		resp := models.ChatResponse{Answer: "Sorry, I couldn't look that up right now."}
		if resume != nil {
			resp.WizardStep = stepInfo(*resume)
		}
		return resp
	}

	resp := models.ChatResponse{Answer: result.Answer, SearchResults: result.Vehicles}
	if resume != nil {
		resp.WizardStep = stepInfo(*resume)
	}
	return resp
}

func (o *Orchestrator) handleConversational(ctx context.Context, session *models.ConversationSession, resume *models.WizardState, question string) models.ChatResponse {
	msgs := []ai.Message{{Role: "system", Content: conversationalSystemPrompt}}

	history, err := o.convs.GetConversationHistory(ctx, session.ID, 6)
	if err != nil {
		log.Printf("load history for session %s: %v", session.ID, err)
	}
	for _, m := range history {
		msgs = append(msgs, ai.Message{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, ai.Message{Role: "user", Content: question})

	cctx, cancel := o.boundedCtx(ctx)
	reply, err := o.llm.Chat(cctx, msgs)
	cancel()
	if err != nil {
		log.Printf("conversational reply for session %s: %v", session.ID, err)
		reply = genericErrorReply
	}

	resp := models.ChatResponse{Answer: reply}
	if resume != nil {
		resp.WizardStep = stepInfo(*resume)
	}
	return resp
}

// handleDemo returns a canned preview without touching the live wizard
// state.
func (o *Orchestrator) handleDemo() models.ChatResponse {
	demo := models.WizardState{
		Step:          models.StepPreview,
		AdType:        models.AdTypeSingle,
		IsPreviewMode: true,
		Budget:        models.Budget{Amount: 50, Type: models.BudgetTypeDaily},
		Targeting: models.Targeting{
			AgeRange:  "25-65",
			Locations: []string{"Philadelphia", "Allentown"},
			Interests: []string{"SUVs", "family vehicles"},
		},
		AdCopy: models.AdCopy{
			Headline:     "Your Next Adventure Starts Here",
			PrimaryText:  "Low mileage, one owner, ready for a test drive today.",
			Description:  "Stop by the lot or book online in under a minute.",
			CallToAction: "Book a Test Drive",
			Destination:  models.DestinationVSP,
		},
		SelectedVehicle: &models.Vehicle{
			StockNumber:   "DEMO-001",
			Year:          2023,
			Make:          "Ford",
			Model:         "Explorer",
			BodyStyle:     "SUV",
			ExteriorColor: "Red",
			Price:         38995,
		},
	}

	return models.ChatResponse{
		Answer:      "Here's a sample of what your finished ad could look like. Say \"create ad\" to build your own.",
		ShowPreview: true,
		PreviewData: buildPreview(demo),
	}
}

func (o *Orchestrator) launchAd(ctx context.Context, session *models.ConversationSession, state models.WizardState) error {
	ad := &models.Ad{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		CustomerID:  session.CustomerID,
		AdType:      state.AdType,
		Budget:      state.Budget,
		Targeting:   state.Targeting,
		AdCopy:      state.AdCopy,
		Destination: state.AdCopy.Destination,
		Status:      models.AdStatusLaunched,
	}
	if state.SelectedVehicle != nil {
		ad.VehicleStock = state.SelectedVehicle.StockNumber
	}
	return o.ads.Create(ctx, ad)
}

func (o *Orchestrator) recordMessage(ctx context.Context, session *models.ConversationSession, role models.MessageRole, content string) {
	if content == "" {
		return
	}
	msg := &models.ConversationMessage{
		ID:         uuid.NewString(),
		SessionID:  session.ID,
		CustomerID: session.CustomerID,
		Role:       role,
		Content:    content,
	}
	if err := o.convs.AddMessage(ctx, msg); err != nil {
		log.Printf("record %s message for session %s: %v", role, session.ID, err)
	}
}

func (o *Orchestrator) generateTitle(ctx context.Context, session *models.ConversationSession, firstQuestion string) {
	cctx, cancel := o.boundedCtx(ctx)
	defer cancel()

	title, err := o.llm.Complete(cctx,
		"Generate a short conversation title, at most six words, no quotes.",
		firstQuestion)
	if err != nil {
		log.Printf("generate title for session %s: %v", session.ID, err)
		return
	}
	title = strings.TrimSpace(strings.Trim(title, `"`))
	if title == "" {
		return
	}
	if err := o.convs.UpdateSessionTitle(ctx, session.ID, title); err != nil {
		log.Printf("update title for session %s: %v", session.ID, err)
	}
}

func (o *Orchestrator) storedUserTurns(ctx context.Context, sessionID string) []models.ConversationMessage {
	history, err := o.convs.GetConversationHistory(ctx, sessionID, 50)
	if err != nil {
		log.Printf("load history for session %s: %v", sessionID, err)
		return nil
	}
	return history
}

func (o *Orchestrator) boundedCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.llmTimeout)
}

// adTypeFromTurns looks for an earlier ad-type answer in the turns supplied
// by the front-end and in the stored history, most recent first.
func adTypeFromTurns(recent []models.ChatTurn, stored []models.ConversationMessage) models.AdType {
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Role != string(models.RoleUser) {
			continue
		}
		if t := adTypeFromText(recent[i].Content); t != "" {
			return t
		}
	}
	for i := len(stored) - 1; i >= 0; i-- {
		if stored[i].Role != models.RoleUser {
			continue
		}
		if t := adTypeFromText(stored[i].Content); t != "" {
			return t
		}
	}
	return ""
}

func adTypeFromText(text string) models.AdType {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "carousel") {
		return models.AdTypeCarousel
	}
	if strings.Contains(lower, "single") {
		return models.AdTypeSingle
	}
	return ""
}

func isCreateAdTrigger(lower string) bool {
	for _, trigger := range []string{"create ad", "create an ad", "make an ad", "build an ad", "new ad"} {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

func isDemoRequest(lower string) bool {
	return strings.Contains(lower, "demo")
}

func stepInfo(state models.WizardState) *models.WizardStepInfo {
	return &models.WizardStepInfo{
		Step:        int(state.Step),
		StepName:    state.Step.String(),
		Question:    Prompt(state.Step),
		WizardState: state,
	}
}

func buildPreview(state models.WizardState) *models.AdPreview {
	return &models.AdPreview{
		AdType:       state.AdType,
		Vehicle:      state.SelectedVehicle,
		Budget:       state.Budget,
		Targeting:    state.Targeting,
		Headline:     state.AdCopy.Headline,
		PrimaryText:  state.AdCopy.PrimaryText,
		Description:  state.AdCopy.Description,
		CallToAction: state.AdCopy.CallToAction,
		Destination:  state.AdCopy.Destination,
	}
}
