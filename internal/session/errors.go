package session

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned by Open when advancement is switched off.
	ErrDisabled = errors.New("session advancement is disabled")

	// ErrClosed is returned by every action after completion or cancellation.
	ErrClosed = errors.New("wizard is closed")

	// ErrAwaitingConfirmation is returned while a confirmation is pending.
	ErrAwaitingConfirmation = errors.New("wizard is awaiting confirmation")

	// ErrWrongStep is returned for actions that do not belong to the current step.
	ErrWrongStep = errors.New("action not available in this step")

	// ErrUnknownSkill is returned for skill ids that are not part of the
	// relevant set.
	ErrUnknownSkill = errors.New("unknown skill")

	// ErrUnknownQuestion is returned for custom question indexes out of range.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrNothingPending is returned by Confirm and Decline with no open prompt.
	ErrNothingPending = errors.New("no confirmation pending")

	// ErrNotReady is returned when completion is requested too early.
	ErrNotReady = errors.New("session cannot be completed yet")
)

// Rejection is a validation failure the operator can fix and retry.
// The wizard state is unchanged.
type Rejection struct {
	Key  string
	Text string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejected: %s", r.Key)
}

// IsRejection reports whether err is a *Rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
