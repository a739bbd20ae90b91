package contribution_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/groupwork/internal/domain/contribution"
	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type pair struct {
	group, set primitive.ObjectID
	p1, p2     primitive.ObjectID
	other      primitive.ObjectID
}

func newPair() pair {
	return pair{
		group: primitive.NewObjectID(),
		set:   primitive.NewObjectID(),
		p1:    primitive.NewObjectID(),
		p2:    primitive.NewObjectID(),
		other: primitive.NewObjectID(),
	}
}

func (p pair) input(decls ...contribution.Declaration) contribution.Input {
	return contribution.Input{
		GroupID:        p.group,
		TaskGroupSetID: &p.set,
		TaskGroupID:    &p.group,
		Members:        []primitive.ObjectID{p.p1, p.p2},
		Declarations:   decls,
	}
}

func decl(id primitive.ObjectID, pct int) contribution.Declaration {
	return contribution.Declaration{ProjectID: id, Pct: pct}
}

func TestValidate(t *testing.T) {
	p := newPair()
	otherGroup := primitive.NewObjectID()

	tests := []struct {
		name string
		in   contribution.Input
		want error
	}{
		{
			name: "even split",
			in:   p.input(decl(p.p1, 50), decl(p.p2, 50)),
		},
		{
			name: "upper tolerance edge",
			in:   p.input(decl(p.p1, 60), decl(p.p2, 50)),
		},
		{
			name: "lower tolerance edge",
			in:   p.input(decl(p.p1, 45), decl(p.p2, 45)),
		},
		{
			name: "excessive",
			in:   p.input(decl(p.p1, 50), decl(p.p2, 150)),
			want: grouperr.ErrContributionExcessive,
		},
		{
			name: "just over tolerance",
			in:   p.input(decl(p.p1, 61), decl(p.p2, 50)),
			want: grouperr.ErrContributionExcessive,
		},
		{
			name: "insufficient",
			in:   p.input(decl(p.p1, 50), decl(p.p2, 10)),
			want: grouperr.ErrContributionInsufficient,
		},
		{
			name: "negative share",
			in:   p.input(decl(p.p1, 110), decl(p.p2, -10)),
			want: grouperr.ErrContributionInsufficient,
		},
		{
			name: "single share above whole task",
			in:   p.input(decl(p.p1, 105), decl(p.p2, 0)),
			want: grouperr.ErrContributionExcessive,
		},
		{
			name: "single share of whole task",
			in:   p.input(decl(p.p1, 100), decl(p.p2, 0)),
		},
		{
			name: "missing member",
			in:   p.input(decl(p.p1, 100)),
			want: grouperr.ErrMissingMemberContribution,
		},
		{
			name: "non member reported before missing member",
			in:   p.input(decl(p.p1, 50), decl(p.other, 50)),
			want: grouperr.ErrNonMemberContribution,
		},
		{
			name: "duplicate entry",
			in:   p.input(decl(p.p1, 50), decl(p.p1, 50), decl(p.p2, 0)),
			want: grouperr.ErrNonMemberContribution,
		},
		{
			name: "individual task",
			in: contribution.Input{
				GroupID:      p.group,
				Members:      []primitive.ObjectID{p.p1, p.p2},
				Declarations: []contribution.Declaration{decl(p.p1, 50), decl(p.p2, 50)},
			},
			want: grouperr.ErrNotGroupTask,
		},
		{
			name: "task belongs to another group",
			in: contribution.Input{
				GroupID:        p.group,
				TaskGroupSetID: &p.set,
				TaskGroupID:    &otherGroup,
				Members:        []primitive.ObjectID{p.p1, p.p2},
				Declarations:   []contribution.Declaration{decl(p.p1, 50), decl(p.p2, 50)},
			},
			want: grouperr.ErrWrongGroupForSubmission,
		},
		{
			name: "task owner not in any group",
			in: contribution.Input{
				GroupID:        p.group,
				TaskGroupSetID: &p.set,
				Members:        []primitive.ObjectID{p.p1, p.p2},
				Declarations:   []contribution.Declaration{decl(p.p1, 50), decl(p.p2, 50)},
			},
			want: grouperr.ErrWrongGroupForSubmission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := contribution.Validate(tt.in)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate_MissingDetails(t *testing.T) {
	p := newPair()

	err := contribution.Validate(p.input(decl(p.p1, 100)))

	var ge *grouperr.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *grouperr.Error, got %T", err)
	}
	if ge.Details["project_ids"] != p.p2.Hex() {
		t.Errorf("project_ids detail: got %q, want %q", ge.Details["project_ids"], p.p2.Hex())
	}
}

func TestValidate_ShareAboveWholeTaskDetails(t *testing.T) {
	p := newPair()

	err := contribution.Validate(p.input(decl(p.p1, 105), decl(p.p2, 0)))

	var ge *grouperr.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *grouperr.Error, got %T", err)
	}
	if !errors.Is(err, grouperr.ErrContributionExcessive) {
		t.Fatalf("expected ErrContributionExcessive, got %v", err)
	}
	if ge.Details["project_ids"] != p.p1.Hex() {
		t.Errorf("project_ids detail: got %q, want %q", ge.Details["project_ids"], p.p1.Hex())
	}
}

func TestValidateWithTolerance(t *testing.T) {
	p := newPair()
	in := p.input(decl(p.p1, 50), decl(p.p2, 45))

	if err := contribution.ValidateWithTolerance(in, 5); err != nil {
		t.Errorf("95 with tolerance 5: got %v", err)
	}
	if err := contribution.ValidateWithTolerance(in, 0); !errors.Is(err, grouperr.ErrContributionInsufficient) {
		t.Errorf("95 with tolerance 0: got %v", err)
	}
}
