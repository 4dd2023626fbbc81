package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// defaultSetSeconds is assumed per set when an entry is reps-based
	// (no explicit duration).
	defaultSetSeconds = 30
	// warmupCooldownSeconds is a flat allowance added to every non-empty
	// workout's estimated duration.
	warmupCooldownSeconds = 300
)

// WorkoutEntry is one exercise's configuration within a workout. Entries are
// embedded in the workout document; replacing the entry list on update
// replaces all of them.
type WorkoutEntry struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order      int                `bson:"order" json:"order"` // Unique within the workout, defines iteration order
	Sets       int                `bson:"sets" json:"sets"`   // >= 1, default 3
	Reps       *int               `bson:"reps,omitempty" json:"reps,omitempty"`         // Counted exercises
	Duration   *int               `bson:"duration,omitempty" json:"duration,omitempty"` // Timed exercises, seconds
	RestPeriod int                `bson:"restPeriod" json:"restPeriod"`                 // Seconds between sets, default 60
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Workout is a reusable template owned by exactly one Profile. Ownership is
// permanent; visibility is controlled by IsPublic.
type Workout struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorID         primitive.ObjectID `bson:"creatorId" json:"creatorId"` // Profile of the creator
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	IsPublic          bool               `bson:"isPublic" json:"isPublic"`
	EstimatedDuration *int               `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"` // Minutes
	Difficulty        Difficulty         `bson:"difficulty" json:"difficulty"`
	Tags              []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Entries           []WorkoutEntry     `bson:"entries,omitempty" json:"entries,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnerProfileID implements Ownable.
func (w *Workout) OwnerProfileID() primitive.ObjectID {
	return w.CreatorID
}

// TotalExercises returns the number of entries in this workout.
func (w *Workout) TotalExercises() int {
	return len(w.Entries)
}

// CalculateEstimatedDuration estimates the workout length in minutes from its
// entries. Reps-based sets are assumed to take 30 seconds each; rest periods
// count once between consecutive sets; a flat 300 seconds covers warm-up and
// cool-down. Returns 0 for a workout with no entries.
func (w *Workout) CalculateEstimatedDuration() int {
	if len(w.Entries) == 0 {
		return 0
	}

	totalSeconds := 0
	for _, entry := range w.Entries {
		perSet := defaultSetSeconds
		if entry.Duration != nil {
			perSet = *entry.Duration
		}
		exerciseTime := perSet * entry.Sets
		totalSeconds += exerciseTime + entry.RestPeriod*(entry.Sets-1)
	}

	totalSeconds += warmupCooldownSeconds
	return totalSeconds / 60
}
