package service

import (
	"errors"
	"strings"

	"hostelhub/internal/domain"
)

// --- Error Definitions ---
var (
	ErrRoomNotFound = errors.New("room not found")
)

// --- Service Interface ---
type RoomService interface {
	// GetRoomInfo looks up a room by number. Lookup is case-insensitive.
	GetRoomInfo(roomNumber string) (*domain.Room, error)
	// GetWardenContact returns just the warden contact for a room.
	GetWardenContact(roomNumber string) (*domain.WardenContact, error)
}

// --- Service Implementation ---

// roomService serves room lookups from a static in-memory table. The room
// directory never changes at runtime, so no database backs it.
type roomService struct {
	rooms map[string]domain.Room
}

// NewRoomService creates a roomService seeded with the hostel's room directory.
func NewRoomService() RoomService {
	sarahJohnson := domain.WardenContact{
		Name:  "Dr. Sarah Johnson",
		Phone: "+91-9876543210",
		Email: "sarah.j@hostel.edu",
	}
	robertLee := domain.WardenContact{
		Name:  "Prof. Robert Lee",
		Phone: "+91-9876543211",
		Email: "robert.l@hostel.edu",
	}
	emilyDavis := domain.WardenContact{
		Name:  "Dr. Emily Davis",
		Phone: "+91-9876543212",
		Email: "emily.d@hostel.edu",
	}

	rooms := map[string]domain.Room{
		"A101": {
			RoomNumber:    "A101",
			OccupantNames: []string{"John Doe", "Jane Smith"},
			WardenContact: sarahJohnson,
		},
		"A102": {
			RoomNumber:    "A102",
			OccupantNames: []string{"Mike Wilson", "Tom Brown"},
			WardenContact: sarahJohnson,
		},
		"B201": {
			RoomNumber:    "B201",
			OccupantNames: []string{"Alice Green"},
			WardenContact: robertLee,
		},
		"B202": {
			RoomNumber:    "B202",
			OccupantNames: []string{"Bob White", "Charlie Black", "David Gray"},
			WardenContact: robertLee,
		},
		"C301": {
			RoomNumber:    "C301",
			OccupantNames: []string{},
			WardenContact: emilyDavis,
		},
	}

	return &roomService{rooms: rooms}
}

// GetRoomInfo looks up a room by its number.
func (s *roomService) GetRoomInfo(roomNumber string) (*domain.Room, error) {
	room, ok := s.rooms[strings.ToUpper(strings.TrimSpace(roomNumber))]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

// GetWardenContact returns the warden contact for a room.
func (s *roomService) GetWardenContact(roomNumber string) (*domain.WardenContact, error) {
	room, err := s.GetRoomInfo(roomNumber)
	if err != nil {
		return nil, err
	}
	return &room.WardenContact, nil
}
