package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return r.findOne(ctx, bson.M{"orderId": orderID})
}

func (r *PaymentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Payment
	if err := r.col.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// UpdateStatus records status and returns the updated payment. The payment
// date is stamped when the order is paid.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, orderID string, status domain.PaymentStatus, transactionID string, at time.Time) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"paymentStatus": status, "updatedAt": at}
	if transactionID != "" {
		set["transactionId"] = transactionID
	}
	if status == domain.PaymentPaid {
		set["paymentDate"] = at
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p domain.Payment
	err := r.col.FindOneAndUpdate(ctx, bson.M{"orderId": orderID}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *PaymentRepository) Find(ctx context.Context, q *query.Query) ([]*domain.Payment, error) {
	return findAll[domain.Payment](ctx, r.col, q)
}

func (r *PaymentRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return count(ctx, r.col, q)
}

func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "paidBy", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
