package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FitnessGoal type for profile fitness preferences
type FitnessGoal string

const (
	GoalStrength    FitnessGoal = "strength"
	GoalCardio      FitnessGoal = "cardio"
	GoalWeightLoss  FitnessGoal = "weight_loss"
	GoalWeightGain  FitnessGoal = "weight_gain"
	GoalEndurance   FitnessGoal = "endurance"
	GoalFlexibility FitnessGoal = "flexibility"
	GoalGeneral     FitnessGoal = "general"
)

// ValidFitnessGoal reports whether g is one of the known goals.
func ValidFitnessGoal(g FitnessGoal) bool {
	switch g {
	case GoalStrength, GoalCardio, GoalWeightLoss, GoalWeightGain,
		GoalEndurance, GoalFlexibility, GoalGeneral:
		return true
	}
	return false
}

// Profile is the domain-level fitness record for a User (1:1 by UserID).
// It is the ownership root for workouts and sessions and is created lazily
// on the first authenticated touch.
type Profile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"` // 1:1 with User, unique
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"email"`
	Height      *int               `bson:"height,omitempty" json:"height,omitempty"` // Centimeters
	Weight      *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // Kilograms
	DateOfBirth *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	FitnessGoal FitnessGoal        `bson:"fitnessGoal" json:"fitnessGoal"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
