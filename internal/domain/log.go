package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLog records one performed set within a workout session. set_number
// is intentionally not unique per session so repeated sets and supersets can
// be logged. Ownership is transitive through the session's profile.
type ExerciseLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID         primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ExerciseID        primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetNumber         int                `bson:"setNumber" json:"setNumber"` // Positive
	Reps              *int               `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight            *float64           `bson:"weight,omitempty" json:"weight,omitempty"`     // Kilograms, >= 0
	Duration          *int               `bson:"duration,omitempty" json:"duration,omitempty"` // Seconds, >= 0
	Distance          *float64           `bson:"distance,omitempty" json:"distance,omitempty"` // Kilometers, >= 0
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PerceivedExertion *int               `bson:"perceivedExertion,omitempty" json:"perceivedExertion,omitempty"` // 1-10
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
