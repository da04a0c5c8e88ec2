package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if c.ID == "" {
		c.ID = newID()
	}
	if c.Applicants == nil {
		c.Applicants = []domain.Applicant{}
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Course
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CourseRepository) UpdateDetails(ctx context.Context, c *domain.Course) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"courseName":                       c.CourseName,
		"courseOverview":                   c.CourseOverview,
		"courseDescription":                c.CourseDescription,
		"courseType":                       c.CourseType,
		"department":                       c.Department,
		"duration":                         c.Duration,
		"desiredQualificationOrExperience": c.DesiredQualificationOrExperience,
		"courseLink":                       c.CourseLink,
		"pricingType":                      c.PricingType,
		"fee":                              c.Fee,
		"numberOfSeats":                    c.NumberOfSeats,
		"isIncludedCertificate":            c.IsIncludedCertificate,
		"thumbnail":                        c.Thumbnail,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": set})
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
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

func (r *CourseRepository) Find(ctx context.Context, q *query.Query) ([]*domain.Course, error) {
	return findAll[domain.Course](ctx, r.col, q)
}

func (r *CourseRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return count(ctx, r.col, q)
}

// AddApplicant enrols a unless a.Employee is already enrolled or every seat
// is taken. Both checks are part of the update filter, so concurrent
// enrolments cannot overbook. A missing course is reported as
// domain.ErrNotFound.
func (r *CourseRepository) AddApplicant(ctx context.Context, courseID string, a domain.Applicant) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, enrolFilter(courseID, a.Employee), bson.M{"$push": bson.M{"applicants": a}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": courseID})
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, domain.ErrNotFound
		}
	}
	return res.ModifiedCount == 1, nil
}

// enrolFilter matches the course while employeeID is not enrolled and a seat
// is free. Courses without numberOfSeats have no limit.
func enrolFilter(courseID, employeeID string) bson.M {
	return bson.M{
		"_id":                 courseID,
		"applicants.employee": bson.M{"$ne": employeeID},
		"$or": bson.A{
			bson.M{"numberOfSeats": bson.M{"$exists": false}},
			bson.M{"numberOfSeats": bson.M{"$lte": 0}},
			bson.M{"$expr": bson.M{"$lt": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$applicants", bson.A{}}}},
				"$numberOfSeats",
			}}},
		},
	}
}

func (r *CourseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "postedBy._id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
