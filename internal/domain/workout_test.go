package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int { return &v }

func TestCalculateEstimatedDuration_NoEntries(t *testing.T) {
	w := &Workout{}
	assert.Equal(t, 0, w.CalculateEstimatedDuration(), "empty workout gets no warm-up allowance")
}

func TestCalculateEstimatedDuration_RepsBased(t *testing.T) {
	// 3 sets x 30s assumed + 60s rest x 2 = 210s, plus 300s warm-up/cool-down
	// = 510s -> 8 minutes (floor).
	w := &Workout{
		Entries: []WorkoutEntry{
			{ExerciseID: primitive.NewObjectID(), Order: 1, Sets: 3, Reps: intPtr(10), RestPeriod: 60},
		},
	}
	assert.Equal(t, 8, w.CalculateEstimatedDuration())
}

func TestCalculateEstimatedDuration_TimedEntryOverridesDefault(t *testing.T) {
	// Explicit 120s per set wins over the 30s assumption:
	// 2 sets x 120s + 30s rest = 270s, plus 300s = 570s -> 9 minutes.
	w := &Workout{
		Entries: []WorkoutEntry{
			{ExerciseID: primitive.NewObjectID(), Order: 1, Sets: 2, Duration: intPtr(120), RestPeriod: 30},
		},
	}
	assert.Equal(t, 9, w.CalculateEstimatedDuration())
}

func TestCalculateEstimatedDuration_SingleSetNoRest(t *testing.T) {
	// One set never accrues rest time: 1 x 30s + 300s = 330s -> 5 minutes.
	w := &Workout{
		Entries: []WorkoutEntry{
			{ExerciseID: primitive.NewObjectID(), Order: 1, Sets: 1, RestPeriod: 90},
		},
	}
	assert.Equal(t, 5, w.CalculateEstimatedDuration())
}

func TestCalculateEstimatedDuration_MultipleEntries(t *testing.T) {
	w := &Workout{
		Entries: []WorkoutEntry{
			// 3x30 + 2x60 = 210
			{ExerciseID: primitive.NewObjectID(), Order: 1, Sets: 3, RestPeriod: 60},
			// 2x45 + 1x30 = 120
			{ExerciseID: primitive.NewObjectID(), Order: 2, Sets: 2, Duration: intPtr(45), RestPeriod: 30},
		},
	}
	// 210 + 120 + 300 = 630s -> 10 minutes.
	assert.Equal(t, 10, w.CalculateEstimatedDuration())
}

func TestTotalExercises(t *testing.T) {
	w := &Workout{}
	assert.Equal(t, 0, w.TotalExercises())

	w.Entries = []WorkoutEntry{
		{ExerciseID: primitive.NewObjectID(), Order: 1, Sets: 3},
		{ExerciseID: primitive.NewObjectID(), Order: 2, Sets: 3},
	}
	assert.Equal(t, 2, w.TotalExercises())
}

func TestWorkoutOwnerProfileID(t *testing.T) {
	creator := primitive.NewObjectID()
	w := &Workout{CreatorID: creator}
	assert.Equal(t, creator, w.OwnerProfileID())
}
