package projectstore_test

import (
	"errors"
	"testing"

	projectstore "github.com/dalemusser/groupwork/internal/app/store/projects"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Enroll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	unit := fx.CreateUnit(ctx, "COS10006")
	user := fx.CreateUser(ctx, "Student", "s1", models.RoleUser)

	p, err := store.Enroll(ctx, unit.ID, user.ID)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if !p.Enrolled {
		t.Error("expected project to be enrolled")
	}

	if _, err := store.Enroll(ctx, unit.ID, user.ID); !errors.Is(err, projectstore.ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
	}

	got, err := store.GetByUnitAndUser(ctx, unit.ID, user.ID)
	if err != nil || got.ID != p.ID {
		t.Errorf("GetByUnitAndUser = (%v, %v)", got.ID, err)
	}
}

func TestStore_AnyOwnedBy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gu := fx.CreateGroupUnit(ctx, "COS10007")
	ids := []primitive.ObjectID{gu.Students[0].Project.ID, gu.Students[1].Project.ID}

	owned, err := store.AnyOwnedBy(ctx, ids, gu.Students[1].User.ID)
	if err != nil || !owned {
		t.Errorf("member's user: AnyOwnedBy = (%v, %v), want (true, nil)", owned, err)
	}
	owned, err = store.AnyOwnedBy(ctx, ids, gu.Students[2].User.ID)
	if err != nil || owned {
		t.Errorf("outsider: AnyOwnedBy = (%v, %v), want (false, nil)", owned, err)
	}

	projects, err := store.ListByIDs(ctx, ids)
	if err != nil || len(projects) != 2 {
		t.Errorf("ListByIDs = (%d, %v), want (2, nil)", len(projects), err)
	}
}
