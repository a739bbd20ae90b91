package auditlog_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/groupwork/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/policy/unitpolicy"
	"github.com/dalemusser/groupwork/internal/app/store/audit"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*auditlog.Handler, *testutil.Fixtures, testutil.GroupUnit) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := auditlog.NewHandler(db, unitpolicy.New(db), uierrors.NewErrorLogger(logger), logger)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	gu := fx.CreateGroupUnit(ctx, "AUD101")
	other := fx.CreateGroupUnit(ctx, "AUD102")

	store := audit.New(db)
	for _, e := range []audit.Event{
		{UnitID: &gu.Unit.ID, Category: audit.CategoryGroupwork, EventType: audit.EventMemberAdded, GroupID: &gu.Groups[0].ID, Success: true},
		{UnitID: &gu.Unit.ID, Category: audit.CategoryGroupwork, EventType: audit.EventTaskTransitioned, OperationID: "op-1", Success: true},
		{UnitID: &gu.Unit.ID, Category: audit.CategoryGroupwork, EventType: audit.EventTaskTransitioned, OperationID: "op-1", Success: true},
		{UnitID: &other.Unit.ID, Category: audit.CategoryGroupwork, EventType: audit.EventMemberRemoved, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("log event: %v", err)
		}
	}
	return h, fx, gu
}

type listBody struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
}

func TestServeList_Admin(t *testing.T) {
	h, fx, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fx.CreateAdmin(ctx, "root")

	req := testutil.WithUser(testutil.NewJSONRequest(t, "GET", "/audit", nil), admin)
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var body listBody
	rec.DecodeJSON(t, &body)
	if body.Total != 5 || len(body.Events) != 5 {
		t.Errorf("admin: got total=%d events=%d, want 5", body.Total, len(body.Events))
	}

	req = testutil.WithUser(testutil.NewJSONRequest(t, "GET", "/audit?operation_id=op-1", nil), admin)
	rec = testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.DecodeJSON(t, &body)
	if body.Total != 2 {
		t.Errorf("by operation: got %d, want 2", body.Total)
	}
}

func TestServeList_UnitStaff(t *testing.T) {
	h, _, gu := setup(t)

	tests := []struct {
		name   string
		query  string
		status int
		total  int64
	}{
		{"own unit", "?unit_id=" + gu.Unit.ID.Hex(), http.StatusOK, 3},
		{"own unit by group", "?unit_id=" + gu.Unit.ID.Hex() + "&group_id=" + gu.Groups[0].ID.Hex(), http.StatusOK, 1},
		{"no unit", "", http.StatusForbidden, 0},
		{"bad id", "?unit_id=zzz", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest(t, "GET", "/audit"+tt.query, nil), gu.Tutor)
			rec := testutil.NewRecorder()
			h.ServeList(rec, req)
			rec.AssertStatus(t, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			var body listBody
			rec.DecodeJSON(t, &body)
			if body.Total != tt.total {
				t.Errorf("total: got %d, want %d", body.Total, tt.total)
			}
		})
	}
}

func TestServeList_StudentForbidden(t *testing.T) {
	h, _, gu := setup(t)

	req := testutil.WithUser(testutil.NewJSONRequest(t, "GET", "/audit?unit_id="+gu.Unit.ID.Hex(), nil), gu.Students[0].User)
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeList_Unauthenticated(t *testing.T) {
	h, _, _ := setup(t)

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewJSONRequest(t, "GET", "/audit", nil))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
