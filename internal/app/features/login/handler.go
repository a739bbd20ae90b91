// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	userstore "github.com/dalemusser/groupwork/internal/app/store/users"
	"github.com/dalemusser/groupwork/internal/app/system/auditlog"
	"github.com/dalemusser/groupwork/internal/app/system/auth"
	"github.com/dalemusser/groupwork/internal/app/system/ratelimit"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
	}
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
	Role    string `json:"role"`
}

// badCredentials is the single message for an unknown login ID and a wrong
// password.
const badCredentials = "Login ID or password is incorrect."

// HandleLoginPost handles POST /login with a JSON body
//
//	{ "login_id": "...", "password": "..." }
//
// and on success signs the user in and replies with their identity.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	loginID := strings.TrimSpace(req.LoginID)
	if loginID == "" || req.Password == "" {
		uierrors.BadRequest(w, "Login ID and password are required.")
		return
	}

	if h.Limiter != nil {
		if d := h.Limiter.Check(r, loginID); !d.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			uierrors.Write(w, http.StatusTooManyRequests, uierrors.CodeRateLimited, d.Reason)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, loginID)
		uierrors.Unauthorized(w, badCredentials)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	if u.Status == models.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, loginID)
		uierrors.Forbidden(w, "Your account is currently disabled. Please contact an administrator.")
		return
	}
	if !userstore.CheckPassword(u, req.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, loginID)
		uierrors.Unauthorized(w, badCredentials)
		return
	}

	su := auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, LoginID: u.LoginID, Role: u.Role}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetAccount(loginID)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.LoginID)

	uierrors.WriteJSON(w, http.StatusOK, loginResponse(su))
}
