package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseCategory type for the catalog taxonomy
type ExerciseCategory string

const (
	CategoryStrength     ExerciseCategory = "strength"
	CategoryCardio       ExerciseCategory = "cardio"
	CategoryFlexibility  ExerciseCategory = "flexibility"
	CategoryBalance      ExerciseCategory = "balance"
	CategoryPlyometric   ExerciseCategory = "plyometric"
	CategoryOlympic      ExerciseCategory = "olympic"
	CategoryPowerlifting ExerciseCategory = "powerlifting"
)

// Difficulty type shared by exercises and workouts
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// ValidExerciseCategory reports whether c is one of the known categories.
func ValidExerciseCategory(c ExerciseCategory) bool {
	switch c {
	case CategoryStrength, CategoryCardio, CategoryFlexibility, CategoryBalance,
		CategoryPlyometric, CategoryOlympic, CategoryPowerlifting:
		return true
	}
	return false
}

// ValidDifficulty reports whether d is one of the known levels.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return true
	}
	return false
}

// Exercise is a catalog entry. The catalog is readable by everyone and
// writable by administrators only; name is unique across the catalog.
type Exercise struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description" json:"description"`
	Category          ExerciseCategory   `bson:"category" json:"category"`
	MuscleGroups      []string           `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	EquipmentRequired []string           `bson:"equipmentRequired,omitempty" json:"equipmentRequired,omitempty"`
	Difficulty        Difficulty         `bson:"difficulty" json:"difficulty"`
	VideoURL          string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL          string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Instructions      []string           `bson:"instructions,omitempty" json:"instructions,omitempty"` // Ordered steps
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
