package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is one user's rating of one program. At most one exists per
// (user, program) pair; re-rating overwrites the value and timestamp in place.
type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Value     int                `bson:"value" json:"value"` // strictly 1..5
	RatedAt   time.Time          `bson:"ratedAt" json:"ratedAt"`
}
