package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintStatus tracks the lifecycle of a complaint.
type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "Pending"
	ComplaintResolved ComplaintStatus = "Resolved"
)

// Complaint represents a maintenance complaint filed by a student.
type Complaint struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"` // Identity of the student who filed it
	RoomNumber  string             `bson:"roomNumber" json:"roomNumber"`
	Category    string             `bson:"category" json:"category"` // e.g., "Water", "Electricity", "Plumbing"
	Description string             `bson:"description" json:"description"`
	Status      ComplaintStatus    `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
