package unitpolicy_test

import (
	"testing"

	"github.com/dalemusser/groupwork/internal/app/policy/unitpolicy"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsStaff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	p := unitpolicy.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gu := fx.CreateGroupUnit(ctx, "COS40001")
	admin := fx.CreateAdmin(ctx, "root")
	otherUnit := fx.CreateUnit(ctx, "COS40002")

	tests := []struct {
		name   string
		unitID primitive.ObjectID
		userID primitive.ObjectID
		want   bool
	}{
		{"convenor", gu.Unit.ID, gu.Convenor.ID, true},
		{"tutor", gu.Unit.ID, gu.Tutor.ID, true},
		{"student", gu.Unit.ID, gu.Students[0].User.ID, false},
		{"admin", gu.Unit.ID, admin.ID, true},
		{"tutor of another unit", otherUnit.ID, gu.Tutor.ID, false},
		{"unknown user", gu.Unit.ID, primitive.NewObjectID(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.IsStaff(ctx, tt.unitID, tt.userID)
			if err != nil {
				t.Fatalf("IsStaff error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsStaff = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAdmin_DisabledAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	p := unitpolicy.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "root")
	if _, err := db.Collection("users").UpdateByID(ctx, admin.ID, bson.M{"$set": bson.M{"status": models.StatusDisabled}}); err != nil {
		t.Fatalf("disable admin: %v", err)
	}
	got, err := p.IsAdmin(ctx, admin.ID)
	if err != nil || got {
		t.Errorf("IsAdmin = (%v, %v), want (false, nil)", got, err)
	}
}

func TestCanTrigger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	p := unitpolicy.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gu := fx.CreateGroupUnit(ctx, "COS40003")
	task := fx.TaskFor(ctx, gu.Students[0].Project, gu.GroupTask)

	tests := []struct {
		name    string
		userID  primitive.ObjectID
		trigger taskstatus.Trigger
		want    bool
	}{
		{"owner submits", gu.Students[0].User.ID, taskstatus.TriggerReadyToMark, true},
		{"owner completes", gu.Students[0].User.ID, taskstatus.TriggerComplete, false},
		{"groupmate submits", gu.Students[1].User.ID, taskstatus.TriggerReadyToMark, false},
		{"tutor completes", gu.Tutor.ID, taskstatus.TriggerComplete, true},
		{"convenor submits", gu.Convenor.ID, taskstatus.TriggerReadyToMark, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.CanTrigger(ctx, task, tt.trigger, tt.userID)
			if err != nil {
				t.Fatalf("CanTrigger error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanTrigger = %v, want %v", got, tt.want)
			}
		})
	}
}
