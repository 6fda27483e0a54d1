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

const noticeCollectionName = "notices"

// mongoNoticeRepository implements the repository.NoticeRepository interface using MongoDB.
type mongoNoticeRepository struct {
	collection *mongo.Collection
}

// NewMongoNoticeRepository creates a new instance of mongoNoticeRepository.
func NewMongoNoticeRepository(db *mongo.Database) repository.NoticeRepository {
	return &mongoNoticeRepository{
		collection: db.Collection(noticeCollectionName),
	}
}

// Create inserts a new notice into the database.
func (r *mongoNoticeRepository) Create(ctx context.Context, notice *domain.Notice) (primitive.ObjectID, error) {
	if notice.Title == "" || notice.Message == "" {
		return primitive.NilObjectID, errors.New("notice title and message are required")
	}

	notice.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	notice.CreatedAt = now
	notice.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, notice)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetAll retrieves every notice, newest first.
func (r *mongoNoticeRepository) GetAll(ctx context.Context) ([]domain.Notice, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notices []domain.Notice
	if err = cursor.All(ctx, &notices); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	if notices == nil {
		notices = []domain.Notice{}
	}
	return notices, nil
}

// Delete removes a notice by id.
func (r *mongoNoticeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNoticeIndexes creates necessary indexes for the notices collection.
func EnsureNoticeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
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
