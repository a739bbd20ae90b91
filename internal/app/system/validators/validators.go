// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates every collection the app writes (transactions cannot
// create collections on older servers) and attaches JSON-Schema validators.
// Servers without collMod/validator support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("units", nil)
	ensure("unit_roles", unitRolesSchema())
	ensure("projects", projectsSchema())
	ensure("group_sets", nil)
	ensure("groups", groupsSchema())
	ensure("group_memberships", groupMembershipsSchema())
	ensure("task_definitions", nil)
	ensure("tasks", tasksSchema())
	ensure("group_submissions", groupSubmissionsSchema())
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure name exists. created is true only
// when this call created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, listErr := collectionExists(ctx, db, name); listErr == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErr(err error, code int32, text string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), text)
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, 48, "already exists")
}

func isNoSuchCommand(err error) bool {
	return commandErr(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErr(err, 115, "not implemented") || commandErr(err, 115, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "login_id", "login_id_ci", "role"},
			"properties": bson.M{
				"full_name":   nonBlank,
				"login_id":    nonBlank,
				"login_id_ci": nonBlank,
				"role":        bson.M{"enum": bson.A{models.RoleAdmin, models.RoleUser}},
				"status":      bson.M{"enum": bson.A{models.StatusActive, models.StatusDisabled}},
			},
		},
	}
}

func unitRolesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"unit_id", "user_id", "role"},
			"properties": bson.M{
				"unit_id": bson.M{"bsonType": "objectId"},
				"user_id": bson.M{"bsonType": "objectId"},
				"role":    bson.M{"enum": bson.A{models.UnitRoleStudent, models.UnitRoleTutor, models.UnitRoleConvenor}},
			},
		},
	}
}

func projectsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"unit_id", "user_id"},
			"properties": bson.M{
				"unit_id": bson.M{"bsonType": "objectId"},
				"user_id": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func groupsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"group_set_id", "unit_id", "name", "name_ci"},
			"properties": bson.M{
				"group_set_id": bson.M{"bsonType": "objectId"},
				"unit_id":      bson.M{"bsonType": "objectId"},
				"name":         nonBlank,
				"name_ci":      nonBlank,
			},
		},
	}
}

func groupMembershipsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"group_id", "group_set_id", "project_id", "active"},
			"properties": bson.M{
				"group_id":     bson.M{"bsonType": "objectId"},
				"group_set_id": bson.M{"bsonType": "objectId"},
				"project_id":   bson.M{"bsonType": "objectId"},
				"active":       bson.M{"bsonType": "bool"},
				"left_at":      bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}

func tasksSchema() bson.M {
	statuses := bson.A{}
	for _, s := range taskstatus.All {
		statuses = append(statuses, string(s))
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"project_id", "task_definition_id", "status", "contribution_pct"},
			"properties": bson.M{
				"project_id":          bson.M{"bsonType": "objectId"},
				"task_definition_id":  bson.M{"bsonType": "objectId"},
				"status":              bson.M{"enum": statuses},
				"contribution_pct":    bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"group_submission_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func groupSubmissionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"group_id", "task_definition_id", "created_at"},
			"properties": bson.M{
				"group_id":           bson.M{"bsonType": "objectId"},
				"task_definition_id": bson.M{"bsonType": "objectId"},
				"notes":              bson.M{"bsonType": "string"},
				"created_at":         bson.M{"bsonType": "date"},
			},
		},
	}
}
