package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/dalemusser/groupwork/internal/app/store/groups"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	unit := fx.CreateUnit(ctx, "COS10003")
	set := fx.CreateGroupSet(ctx, unit, "Teams")

	g, err := store.Create(ctx, set, models.Group{Name: "  Team Ä ", Number: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.Name != "Team Ä" || g.NameCI == "" {
		t.Errorf("name: got %q / %q", g.Name, g.NameCI)
	}
	if g.UnitID != unit.ID || g.GroupSetID != set.ID {
		t.Error("expected unit and set to be copied from the group set")
	}

	_, err = store.Create(ctx, set, models.Group{Name: "team ä", Number: 2})
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Errorf("expected ErrDuplicateGroupName, got %v", err)
	}

	// Same name in another set is fine.
	other := fx.CreateGroupSet(ctx, unit, "Labs")
	if _, err := store.Create(ctx, other, models.Group{Name: "Team Ä", Number: 1}); err != nil {
		t.Errorf("same name in another set: %v", err)
	}
}

func TestStore_ListBySet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gu := fx.CreateGroupUnit(ctx, "COS10004")

	groups, err := store.ListBySet(ctx, gu.Set.ID)
	if err != nil {
		t.Fatalf("ListBySet failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups: got %d, want 2", len(groups))
	}
	if groups[0].Number != 1 || groups[1].Number != 2 {
		t.Errorf("order: got %d, %d", groups[0].Number, groups[1].Number)
	}
}
