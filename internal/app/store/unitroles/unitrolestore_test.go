package unitrolestore_test

import (
	"testing"

	unitrolestore "github.com/dalemusser/groupwork/internal/app/store/unitroles"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/testutil"
)

func TestStore_AssignAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := unitrolestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	unit := fx.CreateUnit(ctx, "COS10005")
	user := fx.CreateUser(ctx, "Tutor", "tutor", models.RoleUser)

	if _, err := store.Assign(ctx, unit.ID, user.ID, " Tutor "); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	r, err := store.Assign(ctx, unit.ID, user.ID, models.UnitRoleConvenor)
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if r.Role != models.UnitRoleConvenor || !r.IsStaff() {
		t.Errorf("role: got %q", r.Role)
	}

	got, err := store.Get(ctx, unit.ID, user.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != r.ID {
		t.Error("reassign should update the existing row")
	}

	staff, err := store.ListStaff(ctx, unit.ID)
	if err != nil || len(staff) != 1 {
		t.Errorf("ListStaff = (%d, %v), want (1, nil)", len(staff), err)
	}

	if _, err := store.Assign(ctx, unit.ID, user.ID, "dean"); err == nil {
		t.Error("expected error for unknown role")
	}
}
