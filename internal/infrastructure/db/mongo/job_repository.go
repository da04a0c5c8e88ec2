package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if job.ID == "" {
		job.ID = newID()
	}
	if job.Applicants == nil {
		// $push needs an array, not null
		job.Applicants = []domain.Applicant{}
	}
	if _, err := r.col.InsertOne(ctx, job); err != nil {
		return nil, mapError(err)
	}
	return job, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var job domain.Job
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		return nil, mapError(err)
	}
	return &job, nil
}

// UpdateDetails sets the editable fields only, so applications recorded
// concurrently are never overwritten.
func (r *JobRepository) UpdateDetails(ctx context.Context, job *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":                  job.Title,
		"description":            job.Description,
		"requirements":           job.Requirements,
		"requiredSkills":         job.RequiredSkills,
		"responsibilities":       job.Responsibilities,
		"locationType":           job.LocationType,
		"country":                job.Country,
		"city":                   job.City,
		"employmentType":         job.EmploymentType,
		"employmentTypeCategory": job.EmploymentTypeCategory,
		"typeOfOrganization":     job.TypeOfOrganization,
		"department":             job.Department,
		"employmentDuration":     job.EmploymentDuration,
		"salary":                 job.Salary,
		"applicationDeadline":    job.ApplicationDeadline,
		"status":                 job.Status,
		"extraBenefits":          job.ExtraBenefits,
		"experience":             job.Experience,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": set})
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
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

func (r *JobRepository) Find(ctx context.Context, q *query.Query) ([]*domain.Job, error) {
	return findAll[domain.Job](ctx, r.col, q)
}

func (r *JobRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return count(ctx, r.col, q)
}

// AddApplicant pushes a in the same statement that checks the job is open
// and a.Employee is not among its applicants.
func (r *JobRepository) AddApplicant(ctx context.Context, jobID string, a domain.Applicant) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":                 jobID,
		"status":              domain.JobOpen,
		"applicants.employee": bson.M{"$ne": a.Employee},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"applicants": a}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *JobRepository) RemoveApplicant(ctx context.Context, jobID, employeeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": jobID, "applicants.employee": employeeID}
	update := bson.M{"$pull": bson.M{"applicants": bson.M{"employee": employeeID}}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// SetApplicantStatus moves the application only while it is still in from,
// so two posters racing on the same applicant cannot both win.
func (r *JobRepository) SetApplicantStatus(ctx context.Context, jobID, employeeID string, from, to domain.ApplicationStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        jobID,
		"applicants": bson.M{"$elemMatch": bson.M{"employee": employeeID, "status": from}},
	}
	update := bson.M{"$set": bson.M{"applicants.$.status": to}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *JobRepository) MarkApplicantViewed(ctx context.Context, jobID, employeeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": jobID, "applicants.employee": employeeID}
	update := bson.M{"$set": bson.M{"applicants.$.isViewed": true}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// CountApplicants counts applications in status across all jobs.
func (r *JobRepository) CountApplicants(ctx context.Context, status domain.ApplicationStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"applicants.status": status}}},
		{{Key: "$unwind", Value: "$applicants"}},
		{{Key: "$match", Value: bson.M{"applicants.status": status}}},
		{{Key: "$count", Value: "n"}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var out []struct {
		N int64 `bson:"n"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].N, nil
}

func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "postedAt", Value: -1}}},
		{Keys: bson.D{{Key: "postedBy._id", Value: 1}}},
		{Keys: bson.D{{Key: "applicants.employee", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "postedAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
