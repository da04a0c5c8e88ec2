package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

func (r *EventRepository) Create(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if ev.ID == "" {
		ev.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, ev); err != nil {
		return nil, mapError(err)
	}
	return ev, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ev domain.Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		return nil, mapError(err)
	}
	return &ev, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Find(ctx context.Context, q *query.Query) ([]*domain.Event, error) {
	return findAll[domain.Event](ctx, r.col, q)
}

func (r *EventRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return count(ctx, r.col, q)
}

func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "postedBy._id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
