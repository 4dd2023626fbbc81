package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Ownable is the capability consulted by the access-control layer for write
// authorization. Entities that do not implement it are denied writes by
// default (fail-closed). ExerciseLog deliberately does not implement Ownable:
// its owner is resolved transitively through its session.
type Ownable interface {
	OwnerProfileID() primitive.ObjectID
}
