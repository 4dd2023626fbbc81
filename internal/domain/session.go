package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the session lifecycle
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "planned"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionSkipped    SessionStatus = "skipped"
	SessionCancelled  SessionStatus = "cancelled"
)

// ValidSessionStatus reports whether s is one of the known statuses.
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionPlanned, SessionInProgress, SessionCompleted, SessionSkipped, SessionCancelled:
		return true
	}
	return false
}

// WorkoutSession is a concrete attempt at performing a Workout. The owning
// profile and the workout reference are fixed at creation.
type WorkoutSession struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`       // Profile performing the session
	WorkoutID     primitive.ObjectID `bson:"workoutId" json:"workoutId"` // Immutable after creation
	Status        SessionStatus      `bson:"status" json:"status"`
	ScheduledDate *time.Time         `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	StartedAt     *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt   *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnerProfileID implements Ownable.
func (s *WorkoutSession) OwnerProfileID() primitive.ObjectID {
	return s.UserID
}

// Start marks the session in progress and stamps StartedAt. There is no
// guard on the current status; re-starting a completed session is allowed.
func (s *WorkoutSession) Start(now time.Time) {
	s.Status = SessionInProgress
	s.StartedAt = &now
}

// Complete marks the session completed and stamps CompletedAt. Like Start,
// it does not require any particular prior status.
func (s *WorkoutSession) Complete(now time.Time) {
	s.Status = SessionCompleted
	s.CompletedAt = &now
}

// Duration returns the actual session length in minutes, or nil unless both
// StartedAt and CompletedAt are set.
func (s *WorkoutSession) Duration() *float64 {
	if s.StartedAt == nil || s.CompletedAt == nil {
		return nil
	}
	minutes := s.CompletedAt.Sub(*s.StartedAt).Minutes()
	return &minutes
}

// Date returns the display date for list/detail projections, falling back
// through completed, started, scheduled and finally creation time.
func (s *WorkoutSession) Date() time.Time {
	switch {
	case s.CompletedAt != nil:
		return *s.CompletedAt
	case s.StartedAt != nil:
		return *s.StartedAt
	case s.ScheduledDate != nil:
		return *s.ScheduledDate
	}
	return s.CreatedAt
}
