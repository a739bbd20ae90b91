package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/groupwork/internal/app/system/auth"
	"github.com/dalemusser/groupwork/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name     string
		user     *auth.SessionUser
		wantRole string
		wantOK   bool
	}{
		{"no user", nil, "visitor", false},
		{"malformed id", &auth.SessionUser{ID: "nope", Role: "admin"}, "visitor", false},
		{"admin", &auth.SessionUser{ID: id.Hex(), Role: "ADMIN", Name: "Root"}, "admin", true},
		{"user", &auth.SessionUser{ID: id.Hex(), Role: "user"}, "user", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			role, _, uid, ok := authz.UserCtx(req)
			if role != tt.wantRole || ok != tt.wantOK {
				t.Errorf("UserCtx = (%q, %v), want (%q, %v)", role, ok, tt.wantRole, tt.wantOK)
			}
			if ok && uid != id {
				t.Errorf("user id: got %s, want %s", uid.Hex(), id.Hex())
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "admin"})
	if !authz.IsAdmin(admin) {
		t.Error("admin should be admin")
	}
	user := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "user"})
	if authz.IsAdmin(user) {
		t.Error("user should not be admin")
	}
	if authz.IsAdmin(httptest.NewRequest("GET", "/", nil)) {
		t.Error("visitor should not be admin")
	}
}
