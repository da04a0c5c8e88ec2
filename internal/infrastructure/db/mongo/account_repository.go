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

// AccountRepository stores one principal kind in its own collection.
type AccountRepository[T any, PT domain.AccountHolder[T]] struct {
	col *mongo.Collection
}

func newAccountRepository[T any, PT domain.AccountHolder[T]](db *mongo.Database, name string) *AccountRepository[T, PT] {
	return &AccountRepository[T, PT]{col: db.Collection(name)}
}

func NewEmployeeRepository(db *mongo.Database) *AccountRepository[domain.Employee, *domain.Employee] {
	return newAccountRepository[domain.Employee](db, collectionEmployees)
}

func NewEmployerRepository(db *mongo.Database) *AccountRepository[domain.Employer, *domain.Employer] {
	return newAccountRepository[domain.Employer](db, collectionEmployers)
}

func NewAdminRepository(db *mongo.Database) *AccountRepository[domain.Admin, *domain.Admin] {
	return newAccountRepository[domain.Admin](db, collectionAdmins)
}

// Create inserts account, assigning it an id when it has none.
func (r *AccountRepository[T, PT]) Create(ctx context.Context, account *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	acc := PT(account).AccountRef()
	if acc.ID == "" {
		acc.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, account); err != nil {
		return nil, mapError(err)
	}
	return account, nil
}

func (r *AccountRepository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository[T, PT]) FindByEmail(ctx context.Context, email string) (*T, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository[T, PT]) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*T, error) {
	return r.findOne(ctx, bson.M{
		"reset_password_token":  tokenHash,
		"reset_password_expire": bson.M{"$gt": now},
	})
}

func (r *AccountRepository[T, PT]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var account T
	if err := r.col.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, mapError(err)
	}
	return &account, nil
}

// Update replaces the stored document with account.
func (r *AccountRepository[T, PT]) Update(ctx context.Context, account *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": PT(account).AccountRef().ID}, account)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository[T, PT]) Delete(ctx context.Context, id string) error {
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

func (r *AccountRepository[T, PT]) Find(ctx context.Context, q *query.Query) ([]*T, error) {
	return findAll[T](ctx, r.col, q)
}

func (r *AccountRepository[T, PT]) Count(ctx context.Context, q *query.Query) (int64, error) {
	return count(ctx, r.col, q)
}

// DeleteExpiredUnverified removes pending registrations in one statement so
// that concurrent registrations of other emails are never blocked.
func (r *AccountRepository[T, PT]) DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{
		"verified":   false,
		"otp":        bson.M{"$exists": true, "$ne": ""},
		"otp_expiry": bson.M{"$lte": now},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the unique email index and a TTL index that expires
// unverified registrations even when no sweeper runs.
func (r *AccountRepository[T, PT]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "reset_password_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "otp_expiry", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetPartialFilterExpression(bson.M{"verified": false}),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// findAll runs q against col and decodes every document.
func findAll[T any](ctx context.Context, col *mongo.Collection, q *query.Query) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filterOf(q), findOptionsOf(q))
	if err != nil {
		return nil, err
	}
	items := make([]*T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func count(ctx context.Context, col *mongo.Collection, q *query.Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return col.CountDocuments(ctx, filterOf(q))
}
