package service

import (
	"context"
	"errors"

	"hostelhub/internal/domain"
	"hostelhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoticeNotFound   = errors.New("notice not found")
	ErrNoticeValidation = errors.New("notice title and message are required")
)

// --- Service Interface ---
type NoticeService interface {
	Create(ctx context.Context, title, message, postedBy string) (*domain.Notice, error)
	List(ctx context.Context) ([]domain.Notice, error)
	Delete(ctx context.Context, id string) error
}

// --- Service Implementation ---

// noticeService implements the NoticeService interface.
type noticeService struct {
	noticeRepo repository.NoticeRepository
}

// NewNoticeService creates a new instance of noticeService.
func NewNoticeService(noticeRepo repository.NoticeRepository) NoticeService {
	return &noticeService{
		noticeRepo: noticeRepo,
	}
}

// Create publishes a new notice on the board.
func (s *noticeService) Create(ctx context.Context, title, message, postedBy string) (*domain.Notice, error) {
	if title == "" || message == "" {
		return nil, ErrNoticeValidation
	}

	notice := &domain.Notice{
		Title:    title,
		Message:  message,
		PostedBy: postedBy,
	}

	id, err := s.noticeRepo.Create(ctx, notice)
	if err != nil {
		return nil, err
	}
	notice.ID = id

	return notice, nil
}

// List returns every notice, newest first.
func (s *noticeService) List(ctx context.Context) ([]domain.Notice, error) {
	return s.noticeRepo.GetAll(ctx)
}

// Delete removes a notice from the board.
func (s *noticeService) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoticeNotFound
	}

	err = s.noticeRepo.Delete(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoticeNotFound
		}
		return err
	}
	return nil
}
