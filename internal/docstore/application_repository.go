// Package docstore keeps admission applications in MongoDB as an alternative to the
// upstream REST backend.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/remote"
)

const resourceName = "applications"

type applicantDocument struct {
	FirstName      string `bson:"firstName"`
	LastName       string `bson:"lastName"`
	DateOfBirth    string `bson:"dateOfBirth,omitempty"`
	Gender         string `bson:"gender,omitempty"`
	GradeApplying  string `bson:"gradeApplying"`
	PreviousSchool string `bson:"previousSchool,omitempty"`
}

type contactDocument struct {
	Email   string `bson:"email"`
	Phone   string `bson:"phone"`
	Address string `bson:"address,omitempty"`
	City    string `bson:"city,omitempty"`
}

type parentDocument struct {
	FatherName    string `bson:"fatherName,omitempty"`
	MotherName    string `bson:"motherName,omitempty"`
	GuardianName  string `bson:"guardianName,omitempty"`
	GuardianPhone string `bson:"guardianPhone,omitempty"`
	Occupation    string `bson:"occupation,omitempty"`
}

type applicationDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	ApplicationNumber string             `bson:"applicationNumber"`
	StudentInfo       applicantDocument  `bson:"studentInfo"`
	ContactInfo       contactDocument    `bson:"contactInfo"`
	ParentInfo        parentDocument     `bson:"parentInfo"`
	Status            string             `bson:"status"`
	Remarks           string             `bson:"remarks,omitempty"`
	SubmittedAt       time.Time          `bson:"submittedAt"`
	LastUpdated       time.Time          `bson:"lastUpdated"`
}

// ApplicationRepository satisfies the same contract as the REST client so the
// applications service does not care where records live.
type ApplicationRepository struct {
	col    *mongo.Collection
	logger *zap.Logger
	now    func() time.Time
}

// NewApplicationRepository wraps a collection.
func NewApplicationRepository(col *mongo.Collection, logger *zap.Logger) *ApplicationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationRepository{col: col, logger: logger, now: time.Now}
}

// List returns every application, newest submission first.
func (r *ApplicationRepository) List(ctx context.Context) ([]models.Application, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fail("list", 0, err)
	}
	defer cursor.Close(ctx)

	var docs []applicationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fail("list", 0, err)
	}
	apps := make([]models.Application, 0, len(docs))
	for _, doc := range docs {
		apps = append(apps, fromDocument(doc))
	}
	return apps, nil
}

// Create stores a new application. The number, status and timestamps are assigned
// here regardless of what the form sent.
func (r *ApplicationRepository) Create(ctx context.Context, app models.Application) (models.Application, error) {
	now := r.now().UTC()
	prefix := numberPrefix(now)
	seq, err := r.col.CountDocuments(ctx, bson.M{"applicationNumber": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}})
	if err != nil {
		return models.Application{}, fail("create", 0, fmt.Errorf("count applications: %w", err))
	}

	doc := toDocument(app)
	doc.ID = primitive.NewObjectID()
	doc.ApplicationNumber = applicationNumber(prefix, seq+1)
	doc.Status = models.ApplicationPending
	doc.SubmittedAt = now
	doc.LastUpdated = now

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return models.Application{}, fail("create", 0, err)
	}
	r.logger.Info("application submitted", zap.String("application_number", doc.ApplicationNumber))
	return fromDocument(doc), nil
}

// Update replaces the editable fields of an application and refreshes lastUpdated.
func (r *ApplicationRepository) Update(ctx context.Context, id string, app models.Application) (models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Application{}, fail("update", http.StatusBadRequest, fmt.Errorf("invalid application id %q", id))
	}

	doc := toDocument(app)
	set := bson.M{
		"studentInfo": doc.StudentInfo,
		"contactInfo": doc.ContactInfo,
		"parentInfo":  doc.ParentInfo,
		"status":      doc.Status,
		"remarks":     doc.Remarks,
		"lastUpdated": r.now().UTC(),
	}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated applicationDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, after).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Application{}, fail("update", http.StatusNotFound, err)
		}
		return models.Application{}, fail("update", 0, err)
	}
	return fromDocument(updated), nil
}

// Remove deletes an application.
func (r *ApplicationRepository) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fail("remove", http.StatusBadRequest, fmt.Errorf("invalid application id %q", id))
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fail("remove", 0, err)
	}
	if res.DeletedCount == 0 {
		return fail("remove", http.StatusNotFound, mongo.ErrNoDocuments)
	}
	return nil
}

// Watch blocks, calling onChange for every write to the collection, until ctx is done.
func (r *ApplicationRepository) Watch(ctx context.Context, onChange func(operation string)) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "operationType", Value: bson.D{
			{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}},
		}}}}},
	}
	stream, err := r.col.Watch(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer stream.Close(context.Background()) //nolint:errcheck

	for stream.Next(ctx) {
		var event struct {
			OperationType string `bson:"operationType"`
		}
		if err := stream.Decode(&event); err != nil {
			r.logger.Warn("undecodable change event", zap.Error(err))
			continue
		}
		onChange(event.OperationType)
	}
	if ctx.Err() != nil {
		return nil
	}
	return stream.Err()
}

func numberPrefix(day time.Time) string {
	return "APP" + day.Format("20060102")
}

func applicationNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

func toDocument(app models.Application) applicationDocument {
	doc := applicationDocument{
		ApplicationNumber: app.ApplicationNumber,
		StudentInfo: applicantDocument{
			FirstName:      app.StudentInfo.FirstName,
			LastName:       app.StudentInfo.LastName,
			DateOfBirth:    app.StudentInfo.DateOfBirth.String(),
			Gender:         app.StudentInfo.Gender,
			GradeApplying:  app.StudentInfo.GradeApplying,
			PreviousSchool: app.StudentInfo.PreviousSchool,
		},
		ContactInfo: contactDocument(app.ContactInfo),
		ParentInfo:  parentDocument(app.ParentInfo),
		Status:      app.Status,
		Remarks:     app.Remarks,
	}
	if oid, err := primitive.ObjectIDFromHex(app.ID); err == nil {
		doc.ID = oid
	}
	if app.SubmittedAt != nil {
		doc.SubmittedAt = *app.SubmittedAt
	}
	if app.LastUpdated != nil {
		doc.LastUpdated = *app.LastUpdated
	}
	return doc
}

func fromDocument(doc applicationDocument) models.Application {
	dob, _ := models.ParseDate(doc.StudentInfo.DateOfBirth)
	app := models.Application{
		ApplicationNumber: doc.ApplicationNumber,
		StudentInfo: models.ApplicantInfo{
			FirstName:      doc.StudentInfo.FirstName,
			LastName:       doc.StudentInfo.LastName,
			DateOfBirth:    dob,
			Gender:         doc.StudentInfo.Gender,
			GradeApplying:  doc.StudentInfo.GradeApplying,
			PreviousSchool: doc.StudentInfo.PreviousSchool,
		},
		ContactInfo: models.ContactInfo(doc.ContactInfo),
		ParentInfo:  models.ParentInfo(doc.ParentInfo),
		Status:      doc.Status,
		Remarks:     doc.Remarks,
	}
	if !doc.ID.IsZero() {
		app.ID = doc.ID.Hex()
	}
	if !doc.SubmittedAt.IsZero() {
		submitted := doc.SubmittedAt
		app.SubmittedAt = &submitted
	}
	if !doc.LastUpdated.IsZero() {
		updated := doc.LastUpdated
		app.LastUpdated = &updated
	}
	return app
}

func fail(op string, status int, err error) error {
	return &remote.RemoteSyncError{Resource: resourceName, Op: op, Status: status, Err: err}
}
