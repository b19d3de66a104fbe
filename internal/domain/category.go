package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a taxonomy tag used for discovery and filtering
// (e.g. goal, equipment, duration). Admin-managed, independent lifecycle.
type Category struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Label string             `bson:"label" json:"label"`
	Slug  string             `bson:"slug" json:"slug"` // Unique
	Type  string             `bson:"type" json:"type"`
}
