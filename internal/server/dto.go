package server

import (
	"jobline/internal/domain"
	"jobline/internal/wizard"
)

// Request payloads

type UpdateFieldRequest struct {
	Field string `json:"field" example:"mission_action"`
	Value string `json:"value"`
}

type SetLevelRequest struct {
	Level string `json:"level" enum:"Estratégico,Táctico,Operacional"`
}

type SetScopeRequest struct {
	Scope string `json:"scope" enum:"Nacional,Internacional,"`
}

type UpdateProfileRequest struct {
	Field string `json:"field" example:"education"`
	Value string `json:"value"`
}

type SetProfileFlagRequest struct {
	Flag  string `json:"flag" enum:"travel,experience_required"`
	Value bool   `json:"value"`
}

type SetLanguageRequest struct {
	English    bool `json:"english"`
	Percentage int  `json:"percentage" minimum:"0" maximum:"100"`
}

type SetExperienceAreaRequest struct {
	Index  int    `json:"index"`
	Column string `json:"column" enum:"area,level,years,other"`
	Value  string `json:"value"`
}

type UpdateOrgChartRequest struct {
	Field string   `json:"field" enum:"manager_of_manager,manager,peers,subordinates"`
	Index *int     `json:"index,omitempty"`
	Value string   `json:"value,omitempty"`
	Peers []string `json:"peers,omitempty"`
}

type UpdateSectionRequest struct {
	Index  int    `json:"index"`
	Column string `json:"column" enum:"entity,purpose,situation,description"`
	Value  string `json:"value"`
}

type SetCommentsRequest struct {
	Value string `json:"value"`
}

type TransitionRequest struct {
	To string `json:"to" enum:"Elaboración,Validación (Jefe),Aprobado (RH)"`
}

type StartWizardRequest struct {
	// ResponsibilityID pre-seeds the session from an existing record.
	ResponsibilityID string `json:"responsibility_id,omitempty"`
}

type WizardInputRequest struct {
	Field string `json:"field" enum:"action,secondary,object,result"`
	Value string `json:"value"`
}

// Response payloads

type SessionResponse struct {
	SessionID string                 `json:"session_id"`
	Document  *domain.JobDescription `json:"document"`
}

type DocumentResponse struct {
	Document *domain.JobDescription `json:"document"`
}

type MissionResponse struct {
	Preview string `json:"preview"`
	Warning string `json:"warning,omitempty"`
}

type VerbResponse struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Class         string `json:"class" enum:"Recomendado,NO Recomendado"`
	Description   string `json:"description,omitempty"`
	Clarification string `json:"clarification,omitempty"`
}

type WizardStateResponse struct {
	Step     int    `json:"step" minimum:"1" maximum:"3"`
	Editing  bool   `json:"editing"`
	Action   string `json:"action"`
	Advisory string `json:"advisory,omitempty"`
}

type ResponsibilityResponse struct {
	Responsibility domain.Responsibility  `json:"responsibility"`
	Document       *domain.JobDescription `json:"document"`
}

type ConsistencyResponse struct {
	Checking bool   `json:"checking"`
	Result   string `json:"result,omitempty"`
}

type EventResponse struct {
	ID        int64  `json:"id"`
	TS        string `json:"ts" format:"date-time"`
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	EntityID  string `json:"entity_id,omitempty"`
	ActorID   string `json:"actor_id"`
	Payload   string `json:"payload"`
}

func verbResponse(v domain.Verb) VerbResponse {
	return VerbResponse{
		ID:            v.ID,
		Text:          v.Text,
		Class:         string(v.Class),
		Description:   v.Description,
		Clarification: v.Clarification,
	}
}

func verbResponses(verbs []domain.Verb) []VerbResponse {
	out := make([]VerbResponse, 0, len(verbs))
	for _, v := range verbs {
		out = append(out, verbResponse(v))
	}
	return out
}

func wizardStateResponse(w *wizard.Session) WizardStateResponse {
	return WizardStateResponse{
		Step:     int(w.Step()),
		Editing:  w.Editing(),
		Action:   w.Action(),
		Advisory: w.Advisory(),
	}
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		TS:        e.TS,
		Type:      e.Type,
		SessionID: e.SessionID,
		EntityID:  e.EntityID,
		ActorID:   e.ActorID,
		Payload:   e.Payload,
	}
}
