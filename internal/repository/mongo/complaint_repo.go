package mongo

import (
	"context"
	"errors"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const complaintCollectionName = "complaints"

// mongoComplaintRepository implements the repository.ComplaintRepository interface using MongoDB.
type mongoComplaintRepository struct {
	collection *mongo.Collection
}

// NewMongoComplaintRepository creates a new instance of mongoComplaintRepository.
func NewMongoComplaintRepository(db *mongo.Database) repository.ComplaintRepository {
	return &mongoComplaintRepository{
		collection: db.Collection(complaintCollectionName),
	}
}

// Create inserts a new complaint into the database.
func (r *mongoComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) (primitive.ObjectID, error) {
	if complaint.Username == "" || complaint.RoomNumber == "" || complaint.Description == "" {
		return primitive.NilObjectID, errors.New("username, room number, and description are required")
	}

	complaint.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	if complaint.Status == "" {
		complaint.Status = domain.ComplaintPending
	}

	result, err := r.collection.InsertOne(ctx, complaint)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a complaint by its MongoDB ObjectID.
func (r *mongoComplaintRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Complaint, error) {
	var complaint domain.Complaint
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&complaint)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

// GetAll retrieves every complaint, newest first.
func (r *mongoComplaintRepository) GetAll(ctx context.Context) ([]domain.Complaint, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []domain.Complaint
	if err = cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	if complaints == nil {
		complaints = []domain.Complaint{}
	}
	return complaints, nil
}

// UpdateStatus sets the status of a complaint and returns the updated document.
func (r *mongoComplaintRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ComplaintStatus) (*domain.Complaint, error) {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}

	// Return the document after the update has been applied.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var complaint domain.Complaint
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&complaint)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

// CountByStatus counts complaints currently in the given status.
func (r *mongoComplaintRepository) CountByStatus(ctx context.Context, status domain.ComplaintStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

// EnsureComplaintIndexes creates necessary indexes for the complaints collection.
func EnsureComplaintIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal, see EnsureUserIndexes.
	}
}
