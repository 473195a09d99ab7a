// Package server exposes the editing engine over HTTP. Requests carry the
// acting user in X-Actor-Id; there is no authentication layer, the header is
// taken at face value for journal attribution.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"jobline/internal/domain"
	"jobline/internal/engine"
	"jobline/internal/store"
	"jobline/internal/wizard"
	"jobline/internal/workflow"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   *engine.Engine
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"read_only"`
	Message string         `json:"message" example:"document is read-only outside Elaboración"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Jobline API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("Jobline API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerSessions(group, cfg.Engine)
	registerDocument(group, cfg.Engine)
	registerSections(group, cfg.Engine)
	registerWorkflow(group, cfg.Engine)
	registerWizard(group, cfg.Engine)
	registerVerbs(group, cfg.Engine)
	registerConsistency(group, cfg.Engine)
	registerEvents(group, cfg.Engine)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, engine.ErrSessionNotFound):
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, store.ErrReadOnly):
		return newAPIError(http.StatusConflict, "read_only", err.Error(), nil)
	case errors.Is(err, store.ErrCapacityExceeded):
		return newAPIError(http.StatusConflict, "capacity_exceeded", err.Error(), nil)
	case errors.Is(err, engine.ErrWizardOpen), errors.Is(err, engine.ErrNoWizard):
		return newAPIError(http.StatusConflict, "wizard_state", err.Error(), nil)
	case errors.Is(err, wizard.ErrIncompleteStep):
		return newAPIError(http.StatusUnprocessableEntity, "incomplete_step", err.Error(), nil)
	}
	var te workflow.InvalidTransitionError
	if errors.As(err, &te) {
		return newAPIError(http.StatusUnprocessableEntity, "invalid_transition", err.Error(),
			map[string]any{"from": te.From, "to": te.To})
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "not found"):
		return newAPIError(http.StatusNotFound, "not_found", msg, nil)
	case strings.Contains(lowered, "unknown") || strings.Contains(lowered, "out of range") || strings.Contains(lowered, "required"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// ActorHeader is the journal attribution input shared by mutating routes.
type ActorHeader struct {
	ActorID string `header:"X-Actor-Id"`
}

func (a ActorHeader) actor() string {
	if a.ActorID == "" {
		return "anonymous"
	}
	return a.ActorID
}

type SessionPath struct {
	SessionID string `path:"session_id"`
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerSessions(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-session",
		Method:        http.MethodPost,
		Path:          "/sessions",
		Summary:       "Start an editing session",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		ActorHeader
	}) (*struct {
		Body SessionResponse `json:"body"`
	}, error) {
		doc, err := e.CreateSession(ctx, input.actor())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SessionResponse `json:"body"`
		}{Body: SessionResponse{SessionID: doc.ID, Document: doc}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "close-session",
		Method:      http.MethodDelete,
		Path:        "/sessions/{session_id}",
		Summary:     "Discard an editing session",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
	}) (*struct{}, error) {
		if err := e.CloseSession(ctx, input.SessionID, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerDocument(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-document",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}/document",
		Summary:     "Current document state",
	}, func(ctx context.Context, input *struct {
		SessionPath
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		doc, err := e.Document(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DocumentResponse `json:"body"`
		}{Body: DocumentResponse{Document: doc}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-field",
		Method:      http.MethodPatch,
		Path:        "/sessions/{session_id}/fields",
		Summary:     "Update one scalar field",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body UpdateFieldRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		f, ok := store.ParseField(input.Body.Field)
		if !ok {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown field %q", input.Body.Field), nil)
		}
		if err := e.UpdateField(ctx, input.SessionID, f, input.Body.Value, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-level",
		Method:      http.MethodPut,
		Path:        "/sessions/{session_id}/level",
		Summary:     "Set hierarchy level",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body SetLevelRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		if err := e.SetLevel(ctx, input.SessionID, domain.HierarchyLevel(input.Body.Level), input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-management-scope",
		Method:      http.MethodPut,
		Path:        "/sessions/{session_id}/scope",
		Summary:     "Set management scope",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body SetScopeRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		if err := e.SetManagementScope(ctx, input.SessionID, input.Body.Scope, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile-field",
		Method:      http.MethodPatch,
		Path:        "/sessions/{session_id}/profile",
		Summary:     "Update one profile text field",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body UpdateProfileRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		f, ok := store.ParseProfileField(input.Body.Field)
		if !ok {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown profile field %q", input.Body.Field), nil)
		}
		if err := e.UpdateProfileField(ctx, input.SessionID, f, input.Body.Value, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-profile-flag",
		Method:      http.MethodPut,
		Path:        "/sessions/{session_id}/profile/flags",
		Summary:     "Set travel or experience flag",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body SetProfileFlagRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		if err := e.SetProfileFlag(ctx, input.SessionID, input.Body.Flag, input.Body.Value, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-language",
		Method:      http.MethodPut,
		Path:        "/sessions/{session_id}/profile/language",
		Summary:     "Set language proficiency",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body SetLanguageRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		if err := e.SetLanguagePercentage(ctx, input.SessionID, input.Body.English, input.Body.Percentage, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-experience-area",
		Method:      http.MethodPut,
		Path:        "/sessions/{session_id}/profile/experience",
		Summary:     "Set one experience table cell",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body SetExperienceAreaRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		col, ok := store.ParseExperienceColumn(input.Body.Column)
		if !ok {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown experience column %q", input.Body.Column), nil)
		}
		if input.Body.Index < 0 || input.Body.Index >= domain.ExperienceSlots {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("experience index %d out of range", input.Body.Index), nil)
		}
		if err := e.SetExperienceArea(ctx, input.SessionID, input.Body.Index, col, input.Body.Value, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-org-chart",
		Method:      http.MethodPatch,
		Path:        "/sessions/{session_id}/org-chart",
		Summary:     "Update the organization chart",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body UpdateOrgChartRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		var err error
		switch input.Body.Field {
		case "manager_of_manager":
			err = e.SetOrgManagerOfManager(ctx, input.SessionID, input.Body.Value, input.actor())
		case "manager":
			err = e.SetOrgManager(ctx, input.SessionID, input.Body.Value, input.actor())
		case "peers":
			err = e.SetPeers(ctx, input.SessionID, input.Body.Peers, input.actor())
		case "subordinates":
			if input.Body.Index == nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", "index is required for subordinates", nil)
			}
			idx := *input.Body.Index
			if idx < 0 || idx >= domain.SubordinateSlots {
				return nil, newAPIError(http.StatusBadRequest, "bad_request",
					fmt.Sprintf("subordinate index %d out of range", idx), nil)
			}
			err = e.SetSubordinate(ctx, input.SessionID, idx, input.Body.Value, input.actor())
		default:
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown org chart field %q", input.Body.Field), nil)
		}
		if err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-comments",
		Method:      http.MethodPut,
		Path:        "/sessions/{session_id}/comments",
		Summary:     "Update comments",
		Description: "Comments stay editable in every workflow status.",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body SetCommentsRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		if err := e.SetComments(ctx, input.SessionID, input.Body.Value, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-mission",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}/mission",
		Summary:     "Mission preview and advisory",
	}, func(ctx context.Context, input *struct {
		SessionPath
	}) (*struct {
		Body MissionResponse `json:"body"`
	}, error) {
		preview, warning, err := e.MissionState(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body MissionResponse `json:"body"`
		}{Body: MissionResponse{Preview: preview, Warning: warning}}, nil
	})
}

func registerSections(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "update-section-item",
		Method:      http.MethodPatch,
		Path:        "/sessions/{session_id}/sections/{section}",
		Summary:     "Update one fixed-slot section cell",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Section string               `path:"section" enum:"internal_relations,external_relations,challenges,decisions"`
		Body    UpdateSectionRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		section, ok := store.ParseSection(input.Section)
		if !ok {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown section %q", input.Section), nil)
		}
		col, ok := store.ParseColumn(input.Body.Column)
		if !ok || !section.ValidColumn(col) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("column %q not valid for section %q", input.Body.Column, input.Section), nil)
		}
		if input.Body.Index < 0 || input.Body.Index >= section.SlotCount() {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("index %d out of range for section %q", input.Body.Index, input.Section), nil)
		}
		if err := e.UpdateArrayItem(ctx, input.SessionID, section, input.Body.Index, col, input.Body.Value, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})
}

func registerWorkflow(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "transition",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/transition",
		Summary:     "Move the workflow status",
		Errors:      []int{http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body TransitionRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		to := domain.WorkflowStatus(input.Body.To)
		if !to.Valid() {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown status %q", input.Body.To), nil)
		}
		if err := e.Transition(ctx, input.SessionID, to, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return documentBody(e, input.SessionID)
	})
}

func registerWizard(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "start-wizard",
		Method:        http.MethodPost,
		Path:          "/sessions/{session_id}/wizard",
		Summary:       "Open the responsibility wizard",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
		Body StartWizardRequest `json:"body"`
	}) (*struct {
		Body WizardStateResponse `json:"body"`
	}, error) {
		var err error
		if input.Body.ResponsibilityID != "" {
			err = e.EditResponsibility(ctx, input.SessionID, input.Body.ResponsibilityID, input.actor())
		} else {
			err = e.StartWizard(ctx, input.SessionID, input.actor())
		}
		if err != nil {
			return nil, handleError(err)
		}
		return wizardBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-wizard",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}/wizard",
		Summary:     "Wizard state",
	}, func(ctx context.Context, input *struct {
		SessionPath
	}) (*struct {
		Body WizardStateResponse `json:"body"`
	}, error) {
		return wizardBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-input",
		Method:      http.MethodPatch,
		Path:        "/sessions/{session_id}/wizard",
		Summary:     "Set one wizard field",
	}, func(ctx context.Context, input *struct {
		SessionPath
		Body WizardInputRequest `json:"body"`
	}) (*struct {
		Body WizardStateResponse `json:"body"`
	}, error) {
		w, err := e.Wizard(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		switch input.Body.Field {
		case "action":
			w.SetAction(input.Body.Value)
		case "secondary":
			w.SetSecondary(input.Body.Value)
		case "object":
			w.SetObject(input.Body.Value)
		case "result":
			w.SetResult(input.Body.Value)
		default:
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown wizard field %q", input.Body.Field), nil)
		}
		return wizardBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-suggestions",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}/wizard/suggestions",
		Summary:     "Verb suggestions for the typed action",
	}, func(ctx context.Context, input *struct {
		SessionPath
	}) (*struct {
		Body []VerbResponse `json:"body"`
	}, error) {
		w, err := e.Wizard(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []VerbResponse `json:"body"`
		}{Body: verbResponses(w.Suggestions())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-next",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/wizard/next",
		Summary:     "Advance the wizard",
		Errors:      []int{http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		SessionPath
	}) (*struct {
		Body WizardStateResponse `json:"body"`
	}, error) {
		w, err := e.Wizard(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := w.Next(); err != nil {
			return nil, handleError(err)
		}
		return wizardBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-back",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/wizard/back",
		Summary:     "Step the wizard backwards",
	}, func(ctx context.Context, input *struct {
		SessionPath
	}) (*struct {
		Body WizardStateResponse `json:"body"`
	}, error) {
		w, err := e.Wizard(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		w.Back()
		return wizardBody(e, input.SessionID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "finish-wizard",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/wizard/finish",
		Summary:     "Commit the wizard responsibility",
		Errors:      []int{http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
	}) (*struct {
		Body ResponsibilityResponse `json:"body"`
	}, error) {
		r, err := e.FinishWizard(ctx, input.SessionID, input.actor())
		if err != nil {
			return nil, handleError(err)
		}
		doc, err := e.Document(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ResponsibilityResponse `json:"body"`
		}{Body: ResponsibilityResponse{Responsibility: r, Document: doc}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-wizard",
		Method:      http.MethodDelete,
		Path:        "/sessions/{session_id}/wizard",
		Summary:     "Discard the wizard session",
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
	}) (*struct{}, error) {
		if err := e.CancelWizard(ctx, input.SessionID, input.actor()); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerVerbs(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-verbs",
		Method:      http.MethodGet,
		Path:        "/verbs",
		Summary:     "Recommended verbs for a level",
	}, func(ctx context.Context, input *struct {
		Level string `query:"level" enum:"Estratégico,Táctico,Operacional"`
		Query string `query:"query"`
	}) (*struct {
		Body []VerbResponse `json:"body"`
	}, error) {
		level := domain.HierarchyLevel(input.Level)
		if input.Level == "" {
			level = domain.LevelTactical
		}
		if !level.Valid() {
			return nil, newAPIError(http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown hierarchy level %q", input.Level), nil)
		}
		return &struct {
			Body []VerbResponse `json:"body"`
		}{Body: verbResponses(e.Catalog.Suggest(level, input.Query))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "classify-verb",
		Method:      http.MethodGet,
		Path:        "/verbs/classify",
		Summary:     "Check a typed verb against the not-recommended set",
	}, func(ctx context.Context, input *struct {
		Text string `query:"text" required:"true"`
	}) (*struct {
		Body struct {
			NotRecommended bool          `json:"not_recommended"`
			Verb           *VerbResponse `json:"verb,omitempty"`
		} `json:"body"`
	}, error) {
		out := &struct {
			Body struct {
				NotRecommended bool          `json:"not_recommended"`
				Verb           *VerbResponse `json:"verb,omitempty"`
			} `json:"body"`
		}{}
		if v, ok := e.Catalog.ClassifyTyped(input.Text); ok {
			vr := verbResponse(v)
			out.Body.NotRecommended = true
			out.Body.Verb = &vr
		}
		return out, nil
	})
}

func registerConsistency(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "check-consistency",
		Method:        http.MethodPost,
		Path:          "/sessions/{session_id}/consistency",
		Summary:       "Start an advisory consistency check",
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *struct {
		SessionPath
		ActorHeader
	}) (*struct {
		Body ConsistencyResponse `json:"body"`
	}, error) {
		if _, err := e.CheckConsistency(ctx, input.SessionID, input.actor()); err != nil {
			return nil, handleError(err)
		}
		checking, result, err := e.ConsistencyState(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ConsistencyResponse `json:"body"`
		}{Body: ConsistencyResponse{Checking: checking, Result: result}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-consistency",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}/consistency",
		Summary:     "Latest consistency advisory",
	}, func(ctx context.Context, input *struct {
		SessionPath
	}) (*struct {
		Body ConsistencyResponse `json:"body"`
	}, error) {
		checking, result, err := e.ConsistencyState(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ConsistencyResponse `json:"body"`
		}{Body: ConsistencyResponse{Checking: checking, Result: result}}, nil
	})
}

func registerEvents(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Event journal",
	}, func(ctx context.Context, input *struct {
		SessionID string `query:"session_id"`
		Limit     int    `query:"limit" minimum:"0"`
	}) (*struct {
		Body []EventResponse `json:"body"`
	}, error) {
		items, err := e.Repo.ListEvents(ctx, input.SessionID, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]EventResponse, 0, len(items))
		for _, ev := range items {
			out = append(out, eventResponse(ev))
		}
		return &struct {
			Body []EventResponse `json:"body"`
		}{Body: out}, nil
	})
}

func documentBody(e *engine.Engine, sessionID string) (*struct {
	Body DocumentResponse `json:"body"`
}, error) {
	doc, err := e.Document(sessionID)
	if err != nil {
		return nil, handleError(err)
	}
	return &struct {
		Body DocumentResponse `json:"body"`
	}{Body: DocumentResponse{Document: doc}}, nil
}

func wizardBody(e *engine.Engine, sessionID string) (*struct {
	Body WizardStateResponse `json:"body"`
}, error) {
	w, err := e.Wizard(sessionID)
	if err != nil {
		return nil, handleError(err)
	}
	return &struct {
		Body WizardStateResponse `json:"body"`
	}{Body: wizardStateResponse(w)}, nil
}
