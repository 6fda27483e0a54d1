package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice represents an announcement published on the notice board by an admin.
type Notice struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	PostedBy  string             `bson:"postedBy" json:"postedBy"` // Admin username
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
