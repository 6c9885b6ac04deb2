// internal/models/chat.go
package models

// ChatTurn is one prior turn supplied by the front-end alongside a message.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Question            string     `json:"question" validate:"required"`
	CustomerID          string     `json:"customer_id" validate:"required"`
	SessionID           string     `json:"session_id"`
	ConversationHistory []ChatTurn `json:"conversation_history"`
	GenerateTitle       bool       `json:"generate_title"`
	IsNewChat           bool       `json:"is_new_chat"`
}

// WizardStepInfo is returned whenever a turn leaves the session mid-wizard,
// so the front-end can render the current question and progress.
type WizardStepInfo struct {
	Step        int         `json:"step"`
	StepName    string      `json:"step_name"`
	Question    string      `json:"question"`
	WizardState WizardState `json:"wizard_state"`
}

// AdPreview is the structured payload the front-end renders as the ad
// preview card once the wizard reaches the preview step.
type AdPreview struct {
	AdType       AdType        `json:"ad_type"`
	Vehicle      *Vehicle      `json:"vehicle,omitempty"`
	Budget       Budget        `json:"budget"`
	Targeting    Targeting     `json:"targeting"`
	Headline     string        `json:"headline"`
	PrimaryText  string        `json:"primary_text"`
	Description  string        `json:"description"`
	CallToAction string        `json:"call_to_action"`
	Destination  AdDestination `json:"destination"`
}

type ChatResponse struct {
	Answer        string          `json:"answer"`
	SearchResults []Vehicle       `json:"search_results,omitempty"`
	WizardStep    *WizardStepInfo `json:"wizard_step,omitempty"`
	ShowPreview   bool            `json:"show_preview,omitempty"`
	PreviewData   *AdPreview      `json:"preview_data,omitempty"`
	SessionID     string          `json:"session_id"`
}
