package logout_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/groupwork/internal/app/features/logout"
	"github.com/dalemusser/groupwork/internal/app/store/audit"
	"github.com/dalemusser/groupwork/internal/app/system/auditlog"
	"github.com/dalemusser/groupwork/internal/app/system/auth"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleLogout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	store := audit.New(db)
	h := logout.NewHandler(sm, auditlog.New(store, logger, auditlog.Config{}), logger)

	u := fx.CreateUser(ctx, "Ada Student", "ada", models.RoleUser)
	req := testutil.WithUser(httptest.NewRequest("POST", "/logout", nil), u)
	rec := httptest.NewRecorder()

	h.HandleLogout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "test-session=") || !strings.Contains(cookie, "Max-Age=0") {
		t.Errorf("expected expired session cookie, got %q", cookie)
	}

	n, _ := store.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventLogout, UserID: &u.ID})
	if n != 1 {
		t.Errorf("logout events: got %d, want 1", n)
	}
}

func TestRoutes_RequireSignedIn(t *testing.T) {
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	router := logout.Routes(logout.NewHandler(sm, nil, logger), sm)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
