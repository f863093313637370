package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

const accountsCollection = "users"

// AccountRepository implements ports.AccountRepository. Email uniqueness is
// enforced by a unique index, not by the lookup-before-insert in the service.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection)}
}

type mongoAccount struct {
	ID             primitive.ObjectID        `bson:"_id,omitempty"`
	Email          string                    `bson:"email"`
	FullName       string                    `bson:"full_name"`
	Role           string                    `bson:"role"`
	HashedPassword string                    `bson:"hashed_password"`
	IsActive       bool                      `bson:"is_active"`
	Contractor     *domain.ContractorProfile `bson:"contractor,omitempty"`
	CreatedAt      time.Time                 `bson:"created_at"`
	UpdatedAt      time.Time                 `bson:"updated_at"`
}

func (m mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID.Hex(),
		Email:        m.Email,
		FullName:     m.FullName,
		Role:         domain.Role(m.Role),
		PasswordHash: m.HashedPassword,
		IsActive:     m.IsActive,
		Contractor:   m.Contractor,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// EnsureIndexes creates the unique email index and the role lookup index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "contractor.skills", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure account indexes: %w", err)
	}
	return nil
}

// Insert stores a new account and returns its id.
func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAccount{
		Email:          domain.NormalizeEmail(account.Email),
		FullName:       account.FullName,
		Role:           string(account.Role),
		HashedPassword: account.PasswordHash,
		IsActive:       account.IsActive,
		Contractor:     account.Contractor,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrDuplicateAccount
		}
		return "", storeErr("insert account", err, domain.ErrNotFound)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert account: unexpected id type %T", res.InsertedID)
	}
	account.ID = oid.Hex()
	return account.ID, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

// FindByID treats a malformed id like an unknown one.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("account: %w", domain.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, storeErr("find account", err, fmt.Errorf("account: %w", domain.ErrNotFound))
	}
	return doc.toDomain(), nil
}

// List returns accounts newest first.
func (r *AccountRepository) List(ctx context.Context, filter ports.AccountFilter) ([]*domain.Account, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = string(filter.Role)
	}
	return r.find(ctx, query, filter.Limit, bson.D{{Key: "created_at", Value: -1}})
}

// ListContractors returns contractors best-rated first.
func (r *AccountRepository) ListContractors(ctx context.Context, filter ports.ContractorFilter) ([]*domain.Account, error) {
	return r.find(ctx, contractorQuery(filter), filter.Limit, bson.D{{Key: "contractor.rating", Value: -1}})
}

func contractorQuery(filter ports.ContractorFilter) bson.M {
	query := bson.M{"role": string(domain.RoleContractor), "is_active": true}
	if len(filter.Skills) > 0 {
		query["contractor.skills"] = bson.M{"$in": filter.Skills}
	}
	if filter.MinRating > 0 {
		query["contractor.rating"] = bson.M{"$gte": filter.MinRating}
	}
	if filter.MaxRate > 0 {
		query["contractor.hourly_rate"] = bson.M{"$lte": filter.MaxRate}
	}
	return query
}

func (r *AccountRepository) find(ctx context.Context, query bson.M, limit int, sort bson.D) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(sort).SetLimit(clampLimit(limit))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, storeErr("list accounts", err, domain.ErrNotFound)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode accounts", err, domain.ErrNotFound)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateContractorProfile replaces the profile of a contractor account and returns the result.
func (r *AccountRepository) UpdateContractorProfile(ctx context.Context, id string, profile domain.ContractorProfile) (*domain.Account, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "role": string(domain.RoleContractor)}
	update := bson.M{"$set": bson.M{"contractor": profile, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoAccount
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, storeErr("update contractor profile", err, fmt.Errorf("contractor: %w", domain.ErrNotFound))
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) IncrementCompletedProjects(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "role": string(domain.RoleContractor)},
		bson.M{"$inc": bson.M{"contractor.completed_projects": 1}},
	)
	if err != nil {
		return storeErr("increment completed projects", err, domain.ErrNotFound)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("contractor: %w", domain.ErrNotFound)
	}
	return nil
}

// CountByRole aggregates the number of accounts per role.
func (r *AccountRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	counts, err := countGrouped(ctx, r.coll, "$role")
	if err != nil {
		return nil, storeErr("count accounts by role", err, domain.ErrNotFound)
	}
	out := make(map[domain.Role]int64, len(counts))
	for k, v := range counts {
		out[domain.Role(k)] = v
	}
	return out, nil
}

// countGrouped runs a $group/$sum aggregation on field and returns count per value.
func countGrouped(ctx context.Context, coll *mongo.Collection, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}
