package service

import (
	"context"
	"errors"

	"hostelhub/internal/domain"
	"hostelhub/internal/realtime"
	"hostelhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrComplaintNotFound   = errors.New("complaint not found")
	ErrComplaintValidation = errors.New("room number and description are required")
	ErrInvalidStatus       = errors.New("status must be Pending or Resolved")
)

// ComplaintStats summarizes the complaint collection.
type ComplaintStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Resolved int64 `json:"resolved"`
}

// --- Service Interface ---
type ComplaintService interface {
	Submit(ctx context.Context, username, roomNumber, category, description string) (*domain.Complaint, error)
	List(ctx context.Context) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
	Stats(ctx context.Context) (ComplaintStats, error)
}

// --- Service Implementation ---

// complaintService implements the ComplaintService interface.
type complaintService struct {
	complaintRepo repository.ComplaintRepository
	bus           realtime.Broadcaster
}

// NewComplaintService creates a new instance of complaintService.
func NewComplaintService(complaintRepo repository.ComplaintRepository, bus realtime.Broadcaster) ComplaintService {
	return &complaintService{
		complaintRepo: complaintRepo,
		bus:           bus,
	}
}

// Submit files a new complaint and announces it to every live connection.
func (s *complaintService) Submit(ctx context.Context, username, roomNumber, category, description string) (*domain.Complaint, error) {
	if username == "" || roomNumber == "" || description == "" {
		return nil, ErrComplaintValidation
	}

	complaint := &domain.Complaint{
		Username:    username,
		RoomNumber:  roomNumber,
		Category:    category,
		Description: description,
		Status:      domain.ComplaintPending,
	}

	id, err := s.complaintRepo.Create(ctx, complaint)
	if err != nil {
		return nil, err
	}
	complaint.ID = id

	s.bus.Broadcast(realtime.EventNewComplaint, complaint)

	return complaint, nil
}

// List returns every complaint, newest first.
func (s *complaintService) List(ctx context.Context) ([]domain.Complaint, error) {
	return s.complaintRepo.GetAll(ctx)
}

// UpdateStatus sets a complaint's status and announces the change.
func (s *complaintService) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if status != domain.ComplaintPending && status != domain.ComplaintResolved {
		return nil, ErrInvalidStatus
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrComplaintNotFound
	}

	complaint, err := s.complaintRepo.UpdateStatus(ctx, objectID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	s.bus.Broadcast(realtime.EventComplaintUpdated, complaint)

	return complaint, nil
}

// Stats reports complaint totals by status.
func (s *complaintService) Stats(ctx context.Context) (ComplaintStats, error) {
	pending, err := s.complaintRepo.CountByStatus(ctx, domain.ComplaintPending)
	if err != nil {
		return ComplaintStats{}, err
	}
	resolved, err := s.complaintRepo.CountByStatus(ctx, domain.ComplaintResolved)
	if err != nil {
		return ComplaintStats{}, err
	}

	return ComplaintStats{
		Total:    pending + resolved,
		Pending:  pending,
		Resolved: resolved,
	}, nil
}
