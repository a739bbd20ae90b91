// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/groupwork/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/groupwork/internal/app/features/errors"
	groupworkfeature "github.com/dalemusser/groupwork/internal/app/features/groupwork"
	healthfeature "github.com/dalemusser/groupwork/internal/app/features/health"
	loginfeature "github.com/dalemusser/groupwork/internal/app/features/login"
	logoutfeature "github.com/dalemusser/groupwork/internal/app/features/logout"
	"github.com/dalemusser/groupwork/internal/app/groupwork"
	"github.com/dalemusser/groupwork/internal/app/policy/unitpolicy"
	"github.com/dalemusser/groupwork/internal/app/store/audit"
	"github.com/dalemusser/groupwork/internal/app/system/auditlog"
	"github.com/dalemusser/groupwork/internal/app/system/auth"
	"github.com/dalemusser/groupwork/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It builds the session manager, the audit
// logger and the group work service once, then mounts the feature routers:
// health, login, logout, groups, tasks and audit.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:      appCfg.AuditLogAuth,
		Groupwork: appCfg.AuditLogGroupwork,
	})

	policy := unitpolicy.New(db)
	svc := groupwork.New(db, policy, auditLog, logger)
	svc.Tolerance = appCfg.ContributionTolerance

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, ratelimit.NewLoginLimiter(), logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Group membership, submissions and task status
	gwHandler := groupworkfeature.NewHandler(db, svc, policy, errLog, logger)
	r.Mount("/groups", groupworkfeature.GroupRoutes(gwHandler, sessionMgr))
	r.Mount("/groupsets", groupworkfeature.GroupSetRoutes(gwHandler, sessionMgr))
	r.Mount("/tasks", groupworkfeature.TaskRoutes(gwHandler, sessionMgr))

	// Audit trail for admins and unit staff
	auditHandler := auditlogfeature.NewHandler(db, policy, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
