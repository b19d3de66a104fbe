package mongo

import (
	"context"
	"errors"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new program document, including its embedded
// day/exercise/set tree.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.Title == "" {
		return primitive.NilObjectID, errors.New("program title is required")
	}

	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.ProgramInfo.Days == nil {
		program.ProgramInfo.Days = []domain.Day{}
	}

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a program by its ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// ListVisible returns public programs plus the requester's own private ones.
// A nil requester lists public programs only.
func (r *mongoProgramRepository) ListVisible(ctx context.Context, requester *primitive.ObjectID) ([]domain.Program, error) {
	filter := bson.M{"isPublic": true}
	if requester != nil {
		filter = bson.M{"$or": []bson.M{
			{"isPublic": true},
			{"authorId": *requester},
		}}
	}

	return r.list(ctx, filter)
}

// ListAll returns every program regardless of visibility (admin views).
func (r *mongoProgramRepository) ListAll(ctx context.Context) ([]domain.Program, error) {
	return r.list(ctx, bson.M{})
}

// ListByIDs returns the programs whose ids are in the given set. Missing ids
// are simply absent from the result.
func (r *mongoProgramRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error) {
	if len(ids) == 0 {
		return []domain.Program{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoProgramRepository) list(ctx context.Context, filter bson.M) ([]domain.Program, error) {
	var programs []domain.Program
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	if programs == nil {
		programs = []domain.Program{}
	}
	return programs, nil
}

// UpdateFields applies a partial update to a program document. Callers are
// responsible for never passing the derived rating fields here.
func (r *mongoProgramRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetProgramInfo replaces the embedded day/exercise/set tree.
func (r *mongoProgramRepository) SetProgramInfo(ctx context.Context, id primitive.ObjectID, info domain.ProgramInfo) error {
	update := bson.M{
		"$set": bson.M{
			"programInfo": info,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetRatingAggregate persists the derived rating fields alongside the program.
func (r *mongoProgramRepository) SetRatingAggregate(ctx context.Context, id primitive.ObjectID, rating float64, count int) error {
	update := bson.M{
		"$set": bson.M{
			"rating":      rating,
			"ratingCount": count,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program document. The embedded tree goes with it.
func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgramIndexes creates necessary indexes for the programs collection.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Covers the visibility-filtered listing.
			Keys:    bson.D{{Key: "isPublic", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "summary", Value: "text"}},
			Options: options.Index().SetName("program_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; queries still work without the indexes.
	}
}
