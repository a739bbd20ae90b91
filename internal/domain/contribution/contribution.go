// internal/domain/contribution/contribution.go
//
// Package contribution validates the per-member contribution shares declared
// with a group submission. Validation is pure: callers gather the group,
// task and membership facts into an Input and nothing is written here.
package contribution

import (
	"strconv"
	"strings"

	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTolerance is how far, in percentage points, the declared total may
// stray from 100.
const DefaultTolerance = 10

// Declaration is one member's declared share of the work.
type Declaration struct {
	ProjectID primitive.ObjectID `json:"project_id"`
	Pct       int                `json:"pct"`
}

// Input holds everything Validate needs to decide.
type Input struct {
	// GroupID is the group making the submission.
	GroupID primitive.ObjectID
	// TaskGroupSetID is the group set of the task's definition; nil for an
	// individual task.
	TaskGroupSetID *primitive.ObjectID
	// TaskGroupID is the active group of the task's owner within
	// TaskGroupSetID; nil when the owner has none.
	TaskGroupID *primitive.ObjectID
	// Members are the projects currently active in GroupID.
	Members      []primitive.ObjectID
	Declarations []Declaration
}

// Validate checks in with DefaultTolerance.
func Validate(in Input) error {
	return ValidateWithTolerance(in, DefaultTolerance)
}

// ValidateWithTolerance runs the group/task consistency, completeness and
// magnitude checks in that order and returns the first failure.
func ValidateWithTolerance(in Input, tolerance int) error {
	if in.TaskGroupSetID == nil {
		return grouperr.ErrNotGroupTask
	}
	if in.TaskGroupID == nil || *in.TaskGroupID != in.GroupID {
		return grouperr.ErrWrongGroupForSubmission
	}

	members := make(map[primitive.ObjectID]bool, len(in.Members))
	for _, id := range in.Members {
		members[id] = true
	}

	seen := make(map[primitive.ObjectID]bool, len(in.Declarations))
	var strays []string
	total := 0
	for _, d := range in.Declarations {
		// A repeated project is not attributable to a distinct member.
		if !members[d.ProjectID] || seen[d.ProjectID] {
			strays = append(strays, d.ProjectID.Hex())
			continue
		}
		seen[d.ProjectID] = true
		total += d.Pct
	}
	if len(strays) > 0 {
		return grouperr.With(grouperr.ErrNonMemberContribution, map[string]string{
			"project_ids": strings.Join(strays, ","),
		})
	}

	var missing []string
	for _, id := range in.Members {
		if !seen[id] {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return grouperr.With(grouperr.ErrMissingMemberContribution, map[string]string{
			"project_ids": strings.Join(missing, ","),
		})
	}

	for _, d := range in.Declarations {
		if d.Pct < 0 {
			return grouperr.With(grouperr.ErrContributionInsufficient, map[string]string{
				"project_ids": d.ProjectID.Hex(),
			})
		}
	}

	// No member can account for more than the whole task, whatever the
	// tolerance allows for the total.
	var over []string
	for _, d := range in.Declarations {
		if d.Pct > 100 {
			over = append(over, d.ProjectID.Hex())
		}
	}
	if len(over) > 0 {
		return grouperr.With(grouperr.ErrContributionExcessive, map[string]string{
			"project_ids": strings.Join(over, ","),
		})
	}

	details := map[string]string{"total": strconv.Itoa(total)}
	switch {
	case total > 100+tolerance:
		return grouperr.With(grouperr.ErrContributionExcessive, details)
	case total < 100-tolerance:
		return grouperr.With(grouperr.ErrContributionInsufficient, details)
	}
	return nil
}
