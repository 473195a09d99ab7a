// Package workflow governs the approval lifecycle of a job description:
// Elaboración -> Validación (Jefe) -> Aprobado (RH), with rejection sending
// the document back to Elaboración. Submission performs no completeness
// validation; consistency is advisory only and lives with the oracle.
package workflow

import (
	"fmt"

	"jobline/internal/domain"
)

// InvalidTransitionError is returned when a transition is requested along an
// undefined edge. The status is left untouched.
type InvalidTransitionError struct {
	From domain.WorkflowStatus
	To   domain.WorkflowStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid workflow transition %s -> %s", e.From, e.To)
}

// EnsureTransition validates a single edge. Aprobado is terminal.
func EnsureTransition(from, to domain.WorkflowStatus) error {
	switch from {
	case domain.StatusDraft:
		if to == domain.StatusValidation {
			return nil
		}
	case domain.StatusValidation:
		if to == domain.StatusApproved || to == domain.StatusDraft {
			return nil
		}
	}
	return InvalidTransitionError{From: from, To: to}
}

// Machine tracks the current status of one document.
type Machine struct {
	status domain.WorkflowStatus
}

// New starts a machine at the given status (Elaboración for new documents).
func New(status domain.WorkflowStatus) *Machine {
	return &Machine{status: status}
}

// Current returns the current status.
func (m *Machine) Current() domain.WorkflowStatus { return m.status }

// Transition moves along a defined edge or fails with
// InvalidTransitionError without mutating status.
func (m *Machine) Transition(to domain.WorkflowStatus) error {
	if err := EnsureTransition(m.status, to); err != nil {
		return err
	}
	m.status = to
	return nil
}
