package domain

// WardenContact holds contact details for the warden responsible for a room.
type WardenContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Room describes a hostel room and its current occupants.
type Room struct {
	RoomNumber    string        `json:"roomNo"`
	OccupantNames []string      `json:"occupantNames"`
	WardenContact WardenContact `json:"wardenContact"`
}
