// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/groupwork/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config selects where each category of events goes.
type Config struct {
	Auth      string
	Groupwork string
}

// Logger writes audit events to the audit store and to zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

func hexField(key string, id *primitive.ObjectID) zap.Field {
	if id == nil {
		return zap.Skip()
	}
	return zap.String(key, id.Hex())
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		hexField("unit_id", event.UnitID),
		hexField("user_id", event.UserID),
		hexField("actor_id", event.ActorID),
		hexField("group_id", event.GroupID),
		hexField("project_id", event.ProjectID),
		hexField("task_id", event.TaskID),
	}
	if event.OperationID != "" {
		fields = append(fields, zap.String("operation_id", event.OperationID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to its category's setting. A nil Logger is
// a no-op. Storage failures are logged and otherwise ignored.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryGroupwork:
		setting = l.config.Groupwork
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"login_id": loginID},
	})
}

func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedLoginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            clientIP(r),
		UserAgent:     userAgent(r),
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_login_id": attemptedLoginID},
	})
}

func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     userAgent(r),
		FailureReason: "wrong password",
		Details:       map[string]string{"login_id": loginID},
	})
}

func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     userAgent(r),
		FailureReason: "user disabled",
		Details:       map[string]string{"login_id": loginID},
	})
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}

// --- Groupwork Events ---

// MemberAdded records a project joining a group. previousGroupID is set when
// the join moved the project out of another group in the same set.
func (l *Logger) MemberAdded(ctx context.Context, unitID, groupID, projectID primitive.ObjectID, actorID, previousGroupID *primitive.ObjectID, reactivated bool) {
	details := map[string]string{}
	if reactivated {
		details["reactivated"] = "true"
	}
	if previousGroupID != nil {
		details["previous_group_id"] = previousGroupID.Hex()
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryGroupwork,
		EventType: audit.EventMemberAdded,
		UnitID:    &unitID,
		GroupID:   &groupID,
		ProjectID: &projectID,
		ActorID:   actorID,
		Success:   true,
		Details:   details,
	})
}

func (l *Logger) MemberRemoved(ctx context.Context, unitID, groupID, projectID primitive.ObjectID, actorID *primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryGroupwork,
		EventType: audit.EventMemberRemoved,
		UnitID:    &unitID,
		GroupID:   &groupID,
		ProjectID: &projectID,
		ActorID:   actorID,
		Success:   true,
	})
}

func (l *Logger) SubmissionCreated(ctx context.Context, operationID string, unitID, groupID, submissionID, taskDefID, submittedBy primitive.ObjectID, members int) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryGroupwork,
		EventType:   audit.EventSubmissionCreated,
		OperationID: operationID,
		UnitID:      &unitID,
		GroupID:     &groupID,
		ProjectID:   &submittedBy,
		Success:     true,
		Details: map[string]string{
			"submission_id":      submissionID.Hex(),
			"task_definition_id": taskDefID.Hex(),
			"members":            strconv.Itoa(members),
		},
	})
}

func (l *Logger) TaskTransitioned(ctx context.Context, operationID string, unitID, taskID, projectID primitive.ObjectID, actorID *primitive.ObjectID, trigger, from, to string) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryGroupwork,
		EventType:   audit.EventTaskTransitioned,
		OperationID: operationID,
		UnitID:      &unitID,
		TaskID:      &taskID,
		ProjectID:   &projectID,
		ActorID:     actorID,
		Success:     true,
		Details:     map[string]string{"trigger": trigger, "from": from, "to": to},
	})
}

// TransitionSkipped records a group member whose task could not follow a
// group-wide status change.
func (l *Logger) TransitionSkipped(ctx context.Context, operationID string, unitID, taskID, projectID primitive.ObjectID, trigger, current string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryGroupwork,
		EventType:     audit.EventTransitionSkipped,
		OperationID:   operationID,
		UnitID:        &unitID,
		TaskID:        &taskID,
		ProjectID:     &projectID,
		FailureReason: "transition not defined from current status",
		Details:       map[string]string{"trigger": trigger, "status": current},
	})
}

func (l *Logger) TransitionRejected(ctx context.Context, unitID, taskID primitive.ObjectID, actorID *primitive.ObjectID, trigger, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryGroupwork,
		EventType:     audit.EventTransitionRejected,
		UnitID:        &unitID,
		TaskID:        &taskID,
		ActorID:       actorID,
		FailureReason: reason,
		Details:       map[string]string{"trigger": trigger},
	})
}
