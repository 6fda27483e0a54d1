package repository

import (
	"context"

	"hostelhub/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ComplaintRepository defines the interface for interacting with complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Complaint, error)
	GetAll(ctx context.Context) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ComplaintStatus) (*domain.Complaint, error)
	CountByStatus(ctx context.Context, status domain.ComplaintStatus) (int64, error)
}

// NoticeRepository defines the interface for interacting with notices.
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) (primitive.ObjectID, error)
	GetAll(ctx context.Context) ([]domain.Notice, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
