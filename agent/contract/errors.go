package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrToolBudget      = errors.New("tool round budget exhausted")
	ErrAnalystTimeout  = errors.New("analyst timed out")
	ErrSlotConflict    = errors.New("slot key claimed by another analyst")
	ErrGroupDegraded   = errors.New("too many analysts failed")
	ErrSynthesis       = errors.New("synthesis failed, retry the question")
)
