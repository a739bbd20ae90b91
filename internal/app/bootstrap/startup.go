// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/groupwork/internal/app/store/users"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.AdminLoginID != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminLoginID, appCfg.AdminName, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin creates the admin account, or promotes an existing account
// with the same login ID. A blank password leaves an existing password
// unchanged; a new account needs one to be able to sign in.
func ensureAdmin(ctx context.Context, deps DBDeps, loginID, name, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		if password == "" {
			logger.Warn("admin account created without a password; it cannot sign in",
				zap.String("login_id", loginID))
		}
		created, err := users.Create(ctx, models.User{
			FullName: name,
			LoginID:  loginID,
			Role:     models.RoleAdmin,
		}, password)
		if err != nil {
			logger.Error("create admin failed", zap.String("login_id", loginID), zap.Error(err))
			return err
		}
		logger.Info("created admin", zap.String("login_id", loginID), zap.String("user_id", created.ID.Hex()))
		return nil
	case err != nil:
		logger.Error("load admin failed", zap.String("login_id", loginID), zap.Error(err))
		return err
	}

	if u.Role == models.RoleAdmin && u.Status == models.StatusActive && password == "" {
		return nil
	}
	if err := users.Promote(ctx, u.ID, password); err != nil {
		logger.Error("promote admin failed", zap.String("login_id", loginID), zap.Error(err))
		return err
	}
	logger.Info("promoted admin", zap.String("login_id", loginID), zap.String("user_id", u.ID.Hex()))
	return nil
}
