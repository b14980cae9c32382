package errors

import "errors"

var (
	ErrTaskNotFound           = errors.New("campaign task not found")
	ErrTaskOwnershipMismatch  = errors.New("campaign task belongs to another user")
	ErrInvalidTaskInput       = errors.New("invalid campaign task input")
	ErrInvalidStateTransition = errors.New("invalid campaign task state transition")
	ErrMissingBusinessProfile = errors.New("business profile has not been captured yet")
	ErrMissingStrategy        = errors.New("strategy has not been generated yet")
	ErrMissingCreativeImage   = errors.New("creative image is required to launch")
	ErrVariantNotFound        = errors.New("creative variant not found")
	ErrAlreadyLaunched        = errors.New("campaign already launched for this task")
	ErrCredentialNotFound     = errors.New("ad platform credential not found")
	ErrCredentialInvalid      = errors.New("ad platform credential rejected by platform")
	ErrStrategyGeneration     = errors.New("strategy generation failed")
)
