// internal/domain/grouperr/grouperr.go
//
// Package grouperr defines the failure kinds reported by group membership,
// group submission and task transition operations. Every kind carries a
// stable identifier so callers can map it to a response without matching
// message text.
package grouperr

import "errors"

// Kind is a machine-readable failure identifier.
type Kind string

const (
	KindNotGroupTask              Kind = "not_group_task"
	KindWrongGroupForSubmission   Kind = "wrong_group_for_submission"
	KindNonMemberContribution     Kind = "non_member_contribution"
	KindMissingMemberContribution Kind = "missing_member_contribution"
	KindContributionExcessive     Kind = "contribution_excessive"
	KindContributionInsufficient  Kind = "contribution_insufficient"
	KindInvalidTransition         Kind = "invalid_transition"
	KindNotAuthorized             Kind = "not_authorized"
	KindNotFound                  Kind = "not_found"
)

// Error is a failure with a kind, a user-facing message and optional details
// (for example the project IDs that were missing a contribution).
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same kind, so errors.Is(err, ErrNotGroupTask)
// holds for detailed copies too.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// With returns a copy of base carrying details.
func With(base *Error, details map[string]string) *Error {
	return &Error{Kind: base.Kind, Message: base.Message, Details: details}
}

var (
	ErrNotGroupTask              = New(KindNotGroupTask, "Group submission only allowed for group tasks.")
	ErrWrongGroupForSubmission   = New(KindWrongGroupForSubmission, "Group submission for wrong group for unit.")
	ErrNonMemberContribution     = New(KindNonMemberContribution, "Not all contributions were from team members.")
	ErrMissingMemberContribution = New(KindMissingMemberContribution, "Contributions missing for some group members.")
	ErrContributionExcessive     = New(KindContributionExcessive, "Contribution percentages are excessive.")
	ErrContributionInsufficient  = New(KindContributionInsufficient, "Contribution percentages are insufficient.")
	ErrInvalidTransition         = New(KindInvalidTransition, "Task status change is not allowed from its current status.")
	ErrNotAuthorized             = New(KindNotAuthorized, "You are not permitted to change this task.")
	ErrNotFound                  = New(KindNotFound, "Record not found.")
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
