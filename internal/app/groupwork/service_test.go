package groupwork_test

import (
	"testing"

	"github.com/dalemusser/groupwork/internal/app/groupwork"
	"github.com/dalemusser/groupwork/internal/app/policy/unitpolicy"
	"github.com/dalemusser/groupwork/internal/app/store/audit"
	"github.com/dalemusser/groupwork/internal/app/system/auditlog"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db    *mongo.Database
	svc   *groupwork.Service
	fx    *testutil.Fixtures
	audit *audit.Store
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	al := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DB, Groupwork: auditlog.DB})
	return env{
		db:    db,
		svc:   groupwork.New(db, unitpolicy.New(db), al, zap.NewNop()),
		fx:    testutil.NewFixtures(t, db),
		audit: store,
	}
}
