package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	groupsetstore "github.com/dalemusser/groupwork/internal/app/store/groupsets"
	unitstore "github.com/dalemusser/groupwork/internal/app/store/units"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password every fixture user can sign in with.
const TestPassword = "password123"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc interface{}) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// CreateUser creates a user who can sign in with TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		LoginID:      loginID,
		LoginIDCI:    strings.ToLower(loginID),
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates a system administrator.
func (f *Fixtures) CreateAdmin(ctx context.Context, loginID string) models.User {
	return f.CreateUser(ctx, "Admin "+loginID, loginID, models.RoleAdmin)
}

// CreateUnit creates an active unit.
func (f *Fixtures) CreateUnit(ctx context.Context, code string) models.Unit {
	f.t.Helper()
	u, err := unitstore.New(f.db).Create(ctx, models.Unit{Code: code, Name: "Unit " + code})
	if err != nil {
		f.t.Fatalf("failed to create unit: %v", err)
	}
	return u
}

// AssignUnitRole gives user a role in unit.
func (f *Fixtures) AssignUnitRole(ctx context.Context, unit models.Unit, user models.User, role string) models.UnitRole {
	f.t.Helper()
	r := models.UnitRole{
		ID:        primitive.NewObjectID(),
		UnitID:    unit.ID,
		UserID:    user.ID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "unit_roles", r)
	return r
}

// CreateStaff creates a user with a tutor or convenor role in unit.
func (f *Fixtures) CreateStaff(ctx context.Context, unit models.Unit, loginID, role string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, "Staff "+loginID, loginID, models.RoleUser)
	f.AssignUnitRole(ctx, unit, u, role)
	return u
}

// EnrollStudent creates a student user and their project in unit.
func (f *Fixtures) EnrollStudent(ctx context.Context, unit models.Unit, loginID string) (models.User, models.Project) {
	f.t.Helper()
	u := f.CreateUser(ctx, "Student "+loginID, loginID, models.RoleUser)
	f.AssignUnitRole(ctx, unit, u, models.UnitRoleStudent)

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		UnitID:    unit.ID,
		UserID:    u.ID,
		Enrolled:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "projects", p)
	return u, p
}

// CreateGroupSet creates a group set in unit.
func (f *Fixtures) CreateGroupSet(ctx context.Context, unit models.Unit, name string) models.GroupSet {
	f.t.Helper()
	gs, err := groupsetstore.New(f.db).Create(ctx, unit.ID, name)
	if err != nil {
		f.t.Fatalf("failed to create group set: %v", err)
	}
	return gs
}

// CreateGroup creates a group in set.
func (f *Fixtures) CreateGroup(ctx context.Context, set models.GroupSet, name string, number int) models.Group {
	f.t.Helper()
	now := time.Now().UTC()
	g := models.Group{
		ID:         primitive.NewObjectID(),
		GroupSetID: set.ID,
		UnitID:     set.UnitID,
		Name:       name,
		NameCI:     text.Fold(name),
		Number:     number,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "groups", g)
	return g
}

// AddMember inserts an active membership row directly.
func (f *Fixtures) AddMember(ctx context.Context, group models.Group, project models.Project) models.GroupMembership {
	f.t.Helper()
	now := time.Now().UTC()
	m := models.GroupMembership{
		ID:         primitive.NewObjectID(),
		GroupID:    group.ID,
		GroupSetID: group.GroupSetID,
		ProjectID:  project.ID,
		Active:     true,
		JoinedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "group_memberships", m)
	return m
}

// CreateTaskDefinition creates a task definition in unit. A non-nil set
// makes it a group task.
func (f *Fixtures) CreateTaskDefinition(ctx context.Context, unit models.Unit, set *models.GroupSet, abbrev string) models.TaskDefinition {
	f.t.Helper()
	now := time.Now().UTC()
	d := models.TaskDefinition{
		ID:           primitive.NewObjectID(),
		UnitID:       unit.ID,
		Name:         "Task " + abbrev,
		Abbreviation: abbrev,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if set != nil {
		id := set.ID
		d.GroupSetID = &id
	}
	f.insert(ctx, "task_definitions", d)
	return d
}

// CreateTask creates project's not_submitted task for def.
func (f *Fixtures) CreateTask(ctx context.Context, project models.Project, def models.TaskDefinition) models.Task {
	return f.CreateTaskWithStatus(ctx, project, def, taskstatus.NotSubmitted)
}

// CreateTaskWithStatus creates project's task for def in the given status.
func (f *Fixtures) CreateTaskWithStatus(ctx context.Context, project models.Project, def models.TaskDefinition, status taskstatus.Status) models.Task {
	f.t.Helper()
	now := time.Now().UTC()
	t := models.Task{
		ID:               primitive.NewObjectID(),
		ProjectID:        project.ID,
		TaskDefinitionID: def.ID,
		UnitID:           def.UnitID,
		Status:           status,
		ContributionPct:  models.DefaultContributionPct,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.insert(ctx, "tasks", t)
	return t
}

// Student is an enrolled user with their project.
type Student struct {
	User    models.User
	Project models.Project
}

// GroupUnit is a unit with one group set, two groups of two students each,
// a group task, an individual task and a convenor, with every student's
// task rows created.
type GroupUnit struct {
	Unit      models.Unit
	Set       models.GroupSet
	Groups    [2]models.Group
	Students  [4]Student // 0,1 in Groups[0]; 2,3 in Groups[1]
	GroupTask models.TaskDefinition
	SoloTask  models.TaskDefinition
	Convenor  models.User
	Tutor     models.User
}

// CreateGroupUnit builds a GroupUnit.
func (f *Fixtures) CreateGroupUnit(ctx context.Context, code string) GroupUnit {
	f.t.Helper()

	var gu GroupUnit
	gu.Unit = f.CreateUnit(ctx, code)
	gu.Set = f.CreateGroupSet(ctx, gu.Unit, "Teams")
	gu.Groups[0] = f.CreateGroup(ctx, gu.Set, "Team 1", 1)
	gu.Groups[1] = f.CreateGroup(ctx, gu.Set, "Team 2", 2)
	gu.GroupTask = f.CreateTaskDefinition(ctx, gu.Unit, &gu.Set, "G1")
	gu.SoloTask = f.CreateTaskDefinition(ctx, gu.Unit, nil, "S1")
	gu.Convenor = f.CreateStaff(ctx, gu.Unit, code+"-convenor", models.UnitRoleConvenor)
	gu.Tutor = f.CreateStaff(ctx, gu.Unit, code+"-tutor", models.UnitRoleTutor)

	for i := range gu.Students {
		u, p := f.EnrollStudent(ctx, gu.Unit, code+"-student-"+string(rune('a'+i)))
		gu.Students[i] = Student{User: u, Project: p}
		f.AddMember(ctx, gu.Groups[i/2], p)
		f.CreateTask(ctx, p, gu.GroupTask)
		f.CreateTask(ctx, p, gu.SoloTask)
	}
	return gu
}

// TaskFor loads project's task for def.
func (f *Fixtures) TaskFor(ctx context.Context, project models.Project, def models.TaskDefinition) models.Task {
	f.t.Helper()
	var t models.Task
	err := f.db.Collection("tasks").FindOne(ctx, bson.M{
		"project_id":         project.ID,
		"task_definition_id": def.ID,
	}).Decode(&t)
	if err != nil {
		f.t.Fatalf("failed to load task: %v", err)
	}
	return t
}
