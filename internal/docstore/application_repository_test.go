package docstore

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/remote"
)

func sampleApplication() models.Application {
	return models.Application{
		StudentInfo: models.ApplicantInfo{
			FirstName:     "Aarav",
			LastName:      "Sharma",
			DateOfBirth:   models.NewDate(2012, time.March, 4),
			GradeApplying: "6",
		},
		ContactInfo: models.ContactInfo{Email: "parent@example.com", Phone: "555-0100"},
		ParentInfo:  models.ParentInfo{FatherName: "Rakesh Sharma"},
		Status:      models.ApplicationApproved,
	}
}

func TestDocumentMappingPreservesFields(t *testing.T) {
	app := sampleApplication()
	app.ID = primitive.NewObjectID().Hex()
	submitted := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	app.SubmittedAt = &submitted
	app.ApplicationNumber = "APP202610010001"

	got := fromDocument(toDocument(app))

	assert.Equal(t, app.ID, got.ID)
	assert.Equal(t, app.StudentInfo, got.StudentInfo)
	assert.Equal(t, app.ContactInfo, got.ContactInfo)
	assert.Equal(t, app.ParentInfo, got.ParentInfo)
	assert.Equal(t, app.ApplicationNumber, got.ApplicationNumber)
	require.NotNil(t, got.SubmittedAt)
	assert.True(t, submitted.Equal(*got.SubmittedAt))
	assert.Nil(t, got.LastUpdated)
}

func TestToDocumentIgnoresNonObjectIDs(t *testing.T) {
	app := sampleApplication()
	app.ID = "1700000000000"

	assert.True(t, toDocument(app).ID.IsZero())
}

func TestApplicationNumber(t *testing.T) {
	prefix := numberPrefix(time.Date(2026, time.October, 16, 23, 0, 0, 0, time.UTC))

	assert.Equal(t, "APP20261016", prefix)
	assert.Equal(t, "APP202610160007", applicationNumber(prefix, 7))
}

func TestInvalidIDsAreRejectedBeforeQuerying(t *testing.T) {
	repo := NewApplicationRepository(nil, nil)

	_, err := repo.Update(context.Background(), "not-an-id", sampleApplication())
	var syncErr *remote.RemoteSyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, http.StatusBadRequest, syncErr.Status)

	err = repo.Remove(context.Background(), "1700000000000")
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "remove", syncErr.Op)
}

func TestApplicationRepositoryAgainstMockServer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "applicationNumber", Value: "APP202610160001"},
			{Key: "studentInfo", Value: bson.D{{Key: "firstName", Value: "Diya"}, {Key: "gradeApplying", Value: "7"}}},
			{Key: "contactInfo", Value: bson.D{{Key: "email", Value: "d@example.com"}}},
			{Key: "status", Value: "pending"},
		}))
		repo := NewApplicationRepository(mt.Coll, nil)

		apps, err := repo.List(context.Background())

		require.NoError(mt, err)
		require.Len(mt, apps, 1)
		assert.Equal(mt, oid.Hex(), apps[0].ID)
		assert.Equal(mt, "Diya", apps[0].StudentInfo.FirstName)
		assert.Equal(mt, "pending", apps[0].Status)
	})

	mt.Run("create assigns number and status", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
			mtest.CreateSuccessResponse(),
		)
		repo := NewApplicationRepository(mt.Coll, nil)
		repo.now = func() time.Time { return time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC) }

		created, err := repo.Create(context.Background(), sampleApplication())

		require.NoError(mt, err)
		assert.NotEmpty(mt, created.ID)
		assert.Equal(mt, "APP202610160003", created.ApplicationNumber)
		assert.Equal(mt, models.ApplicationPending, created.Status)
		require.NotNil(mt, created.SubmittedAt)
		require.NotNil(mt, created.LastUpdated)
	})

	mt.Run("remove missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))
		repo := NewApplicationRepository(mt.Coll, nil)

		err := repo.Remove(context.Background(), primitive.NewObjectID().Hex())

		var syncErr *remote.RemoteSyncError
		require.ErrorAs(mt, err, &syncErr)
		assert.Equal(mt, http.StatusNotFound, syncErr.Status)
	})
}
