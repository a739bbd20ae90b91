package membershipstore_test

import (
	"errors"
	"testing"

	membershipstore "github.com/dalemusser/groupwork/internal/app/store/memberships"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_InsertGetDeactivateReactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	unit := fx.CreateUnit(ctx, "COS10001")
	set := fx.CreateGroupSet(ctx, unit, "Teams")
	group := fx.CreateGroup(ctx, set, "Team 1", 1)
	_, project := fx.EnrollStudent(ctx, unit, "s1")

	if _, err := store.Get(ctx, group.ID, project.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments before insert, got %v", err)
	}

	m, err := store.Insert(ctx, group, project.ID)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !m.Active || m.GroupSetID != set.ID {
		t.Errorf("inserted row: active=%v set=%s", m.Active, m.GroupSetID.Hex())
	}

	if _, err := store.Insert(ctx, group, project.ID); !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("second Insert: expected ErrDuplicateMembership, got %v", err)
	}

	changed, err := store.Deactivate(ctx, group.ID, project.ID)
	if err != nil || !changed {
		t.Fatalf("Deactivate = (%v, %v), want (true, nil)", changed, err)
	}
	changed, err = store.Deactivate(ctx, group.ID, project.ID)
	if err != nil || changed {
		t.Errorf("second Deactivate = (%v, %v), want (false, nil)", changed, err)
	}

	got, err := store.Get(ctx, group.ID, project.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Active || got.LeftAt == nil {
		t.Errorf("deactivated row: active=%v left_at=%v", got.Active, got.LeftAt)
	}

	changed, err = store.Reactivate(ctx, got.ID)
	if err != nil || !changed {
		t.Fatalf("Reactivate = (%v, %v), want (true, nil)", changed, err)
	}
	got, _ = store.Get(ctx, group.ID, project.ID)
	if !got.Active || got.LeftAt != nil {
		t.Errorf("reactivated row: active=%v left_at=%v", got.Active, got.LeftAt)
	}

	n, err := store.CountForPair(ctx, group.ID, project.ID)
	if err != nil {
		t.Fatalf("CountForPair failed: %v", err)
	}
	if n != 1 {
		t.Errorf("rows for pair: got %d, want 1", n)
	}
}

func TestStore_ActiveInSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gu := fx.CreateGroupUnit(ctx, "COS20007")
	otherSet := fx.CreateGroupSet(ctx, gu.Unit, "Labs")

	m, ok, err := store.ActiveInSet(ctx, gu.Students[2].Project.ID, gu.Set.ID)
	if err != nil || !ok {
		t.Fatalf("ActiveInSet = (%v, %v)", ok, err)
	}
	if m.GroupID != gu.Groups[1].ID {
		t.Errorf("group: got %s, want %s", m.GroupID.Hex(), gu.Groups[1].ID.Hex())
	}

	_, ok, err = store.ActiveInSet(ctx, gu.Students[2].Project.ID, otherSet.ID)
	if err != nil || ok {
		t.Errorf("other set: ActiveInSet = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestStore_ActiveAndInactiveProjectIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gu := fx.CreateGroupUnit(ctx, "COS30008")
	group := gu.Groups[0]
	leaver := gu.Students[0].Project
	stayer := gu.Students[1].Project

	if _, err := store.Deactivate(ctx, group.ID, leaver.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	active, err := store.ActiveProjectIDs(ctx, group.ID)
	if err != nil {
		t.Fatalf("ActiveProjectIDs failed: %v", err)
	}
	if len(active) != 1 || active[0] != stayer.ID {
		t.Errorf("active: got %v, want [%s]", active, stayer.ID.Hex())
	}

	inactive, err := store.InactiveProjectIDs(ctx, group.ID)
	if err != nil {
		t.Fatalf("InactiveProjectIDs failed: %v", err)
	}
	if len(inactive) != 1 || inactive[0] != leaver.ID {
		t.Errorf("inactive: got %v, want [%s]", inactive, leaver.ID.Hex())
	}

	rows, err := store.ListByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows: got %d, want 2", len(rows))
	}
}
