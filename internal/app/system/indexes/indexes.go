// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.

Several of these indexes carry invariants, not just query speed:
  - group_memberships (group_id, project_id) unique: one history row per pair
  - group_memberships (project_id, group_set_id) unique where active: at most
    one active membership per project per group set
  - group_submissions (group_id, task_definition_id) unique: write-once
    submission per group and task definition
  - tasks (project_id, task_definition_id) unique: one task per project
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"units", ensureUnits},
		{"unit_roles", ensureUnitRoles},
		{"projects", ensureProjects},
		{"group_sets", ensureGroupSets},
		{"groups", ensureGroups},
		{"group_memberships", ensureGroupMemberships},
		{"task_definitions", ensureTaskDefinitions},
		{"tasks", ensureTasks},
		{"group_submissions", ensureGroupSubmissions},
		{"audit_events", ensureAuditEvents},
	}

	var problems []string
	for _, s := range steps {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Unique  *bool  `bson:"unique,omitempty"`
	Partial bson.D `bson:"partialFilterExpression,omitempty"`
}

func docSig(d bson.D) string {
	parts := make([]string, 0, len(d))
	for _, kv := range d {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[docSig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates each desired index, reusing an existing index with
// the same keys and options and replacing one whose name, uniqueness or
// partial filter differ.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet lists nothing useful; create below.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique bool
		var partial bson.D
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = boolVal(m.Options.Unique)
			if pf, ok := m.Options.PartialFilterExpression.(bson.D); ok {
				partial = pf
			}
		}
		sig := docSig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			same := boolVal(ex.Unique) == unique &&
				docSig(ex.Partial) == docSig(partial) &&
				(name == "" || ex.Name == name)
			if same {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			zap.L().Info("replacing index with different options",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.String("keys", sig))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collections                                                                */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
			Options: options.Index().SetName("uniq_users_login_id_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_users_role_name"),
		},
	})
}

func ensureUnits(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("units"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("uniq_units_code").SetUnique(true),
		},
	})
}

func ensureUnitRoles(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("unit_roles"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unit_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_unit_roles_unit_user").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_unit_roles_user"),
		},
	})
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("projects"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unit_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_projects_unit_user").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_projects_user"),
		},
	})
}

func ensureGroupSets(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("group_sets"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unit_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_group_sets_unit_name"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_set_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_groups_set_name_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "unit_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_unit"),
		},
	})
}

func ensureGroupMemberships(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("group_memberships"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("uniq_gm_group_project").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "group_set_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_gm_active_project_set").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "active", Value: true}}),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("idx_gm_group_active"),
		},
	})
}

func ensureTaskDefinitions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("task_definitions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unit_id", Value: 1}, {Key: "abbreviation", Value: 1}},
			Options: options.Index().SetName("uniq_task_defs_unit_abbrev").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "group_set_id", Value: 1}},
			Options: options.Index().SetName("idx_task_defs_group_set"),
		},
	})
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("tasks"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "task_definition_id", Value: 1}},
			Options: options.Index().SetName("uniq_tasks_project_def").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "task_definition_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_tasks_def_status"),
		},
		{
			Keys:    bson.D{{Key: "group_submission_id", Value: 1}},
			Options: options.Index().SetName("idx_tasks_group_submission"),
		},
	})
}

func ensureGroupSubmissions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("group_submissions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "task_definition_id", Value: 1}},
			Options: options.Index().SetName("uniq_group_submissions_group_def").SetUnique(true),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_task_time"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_group_time"),
		},
		{
			Keys:    bson.D{{Key: "operation_id", Value: 1}},
			Options: options.Index().SetName("idx_audit_operation"),
		},
	})
}
