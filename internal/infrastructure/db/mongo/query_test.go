package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

func TestContractorQuery(t *testing.T) {
	t.Run("no filters only selects active contractors", func(t *testing.T) {
		q := contractorQuery(ports.ContractorFilter{})
		require.Equal(t, bson.M{"role": "contractor", "is_active": true}, q)
	})

	t.Run("all filters", func(t *testing.T) {
		q := contractorQuery(ports.ContractorFilter{
			Skills:    []string{"go", "react"},
			MinRating: 4.5,
			MaxRate:   80,
		})
		require.Equal(t, bson.M{"$in": []string{"go", "react"}}, q["contractor.skills"])
		require.Equal(t, bson.M{"$gte": 4.5}, q["contractor.rating"])
		require.Equal(t, bson.M{"$lte": 80.0}, q["contractor.hourly_rate"])
	})
}

func TestProjectQuery(t *testing.T) {
	require.Empty(t, projectQuery(ports.ProjectFilter{}))

	q := projectQuery(ports.ProjectFilter{
		ClientID: "c1",
		Statuses: []domain.ProjectStatus{domain.ProjectOpen},
	})
	require.Equal(t, bson.M{"client_id": "c1", "status": "open"}, q)

	q = projectQuery(ports.ProjectFilter{
		ContractorID: "k1",
		Statuses:     []domain.ProjectStatus{domain.ProjectInProgress, domain.ProjectCompleted},
		Skills:       []string{"go"},
	})
	require.Equal(t, "k1", q["contractor_id"])
	require.Equal(t, bson.M{"$in": []string{"in_progress", "completed"}}, q["status"])
	require.Equal(t, bson.M{"$in": []string{"go"}}, q["skills_required"])
}

func TestMessageQuery(t *testing.T) {
	all := messageQuery("a", "")
	require.Len(t, all["$or"], 2)

	thread := messageQuery("a", "b")
	require.Equal(t, bson.A{
		bson.M{"sender_id": "a", "recipient_id": "b"},
		bson.M{"sender_id": "b", "recipient_id": "a"},
	}, thread["$or"])
}

func TestParseID(t *testing.T) {
	_, err := parseID("not-an-object-id")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	oid, err := parseID("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	require.Equal(t, "507f1f77bcf86cd799439011", oid.Hex())
}

func TestStoreErr(t *testing.T) {
	notFound := errors.New("gone")
	require.Equal(t, notFound, storeErr("op", mongo.ErrNoDocuments, notFound))

	err := storeErr("op", errors.New("connection reset"), notFound)
	require.ErrorIs(t, err, domain.ErrDependencyUnavailable)
	require.Contains(t, err.Error(), "connection reset")
}

func TestStatusFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	require.Equal(t, bson.M{"_id": oid, "status": "open"}, statusFilter(oid, string(domain.ProjectOpen)))
}

func TestClampLimit(t *testing.T) {
	require.Equal(t, int64(maxListLimit), clampLimit(0))
	require.Equal(t, int64(maxListLimit), clampLimit(maxListLimit+1))
	require.Equal(t, int64(25), clampLimit(25))
}

func TestAccountToDomain(t *testing.T) {
	oid, err := parseID("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	acc := mongoAccount{ID: oid, Email: "a@x.com", Role: "client", HashedPassword: "h", IsActive: true}.toDomain()
	require.Equal(t, "507f1f77bcf86cd799439011", acc.ID)
	require.Equal(t, domain.RoleClient, acc.Role)
	require.Equal(t, "h", acc.PasswordHash)
}
