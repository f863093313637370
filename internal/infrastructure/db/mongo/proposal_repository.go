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
)

const proposalsCollection = "proposals"

// ProposalRepository implements ports.ProposalRepository. A unique compound
// index allows one proposal per contractor per project.
type ProposalRepository struct {
	coll *mongo.Collection
}

func NewProposalRepository(db *mongo.Database) *ProposalRepository {
	return &ProposalRepository{coll: db.Collection(proposalsCollection)}
}

type mongoProposal struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID         string             `bson:"project_id"`
	ContractorID      string             `bson:"contractor_id"`
	ContractorName    string             `bson:"contractor_name"`
	CoverLetter       string             `bson:"cover_letter"`
	ProposedBudget    float64            `bson:"proposed_budget"`
	EstimatedDuration string             `bson:"estimated_duration"`
	Status            string             `bson:"status"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (m mongoProposal) toDomain() *domain.Proposal {
	return &domain.Proposal{
		ID:                m.ID.Hex(),
		ProjectID:         m.ProjectID,
		ContractorID:      m.ContractorID,
		ContractorName:    m.ContractorName,
		CoverLetter:       m.CoverLetter,
		ProposedBudget:    m.ProposedBudget,
		EstimatedDuration: m.EstimatedDuration,
		Status:            domain.ProposalStatus(m.Status),
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func (r *ProposalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "contractor_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "contractor_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure proposal indexes: %w", err)
	}
	return nil
}

func (r *ProposalRepository) Create(ctx context.Context, p *domain.Proposal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProposal{
		ProjectID:         p.ProjectID,
		ContractorID:      p.ContractorID,
		ContractorName:    p.ContractorName,
		CoverLetter:       p.CoverLetter,
		ProposedBudget:    p.ProposedBudget,
		EstimatedDuration: p.EstimatedDuration,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateProposal
		}
		return storeErr("insert proposal", err, domain.ErrNotFound)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*domain.Proposal, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProposal
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, storeErr("find proposal", err, fmt.Errorf("proposal: %w", domain.ErrNotFound))
	}
	return doc.toDomain(), nil
}

func (r *ProposalRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Proposal, error) {
	return r.list(ctx, bson.M{"project_id": projectID})
}

func (r *ProposalRepository) ListByContractor(ctx context.Context, contractorID string) ([]*domain.Proposal, error) {
	return r.list(ctx, bson.M{"contractor_id": contractorID})
}

func (r *ProposalRepository) list(ctx context.Context, query bson.M) ([]*domain.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(maxListLimit)

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, storeErr("list proposals", err, domain.ErrNotFound)
	}
	defer cur.Close(ctx)

	var docs []mongoProposal
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode proposals", err, domain.ErrNotFound)
	}

	out := make([]*domain.Proposal, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// CountByProjects returns the proposal count of each given project. Projects
// without proposals are absent from the result.
func (r *ProposalRepository) CountByProjects(ctx context.Context, projectIDs []string) (map[string]int64, error) {
	if len(projectIDs) == 0 {
		return map[string]int64{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"project_id": bson.M{"$in": projectIDs}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$project_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr("count proposals", err, domain.ErrNotFound)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeErr("decode proposal counts", err, domain.ErrNotFound)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

// SetStatus is a compare-and-set on the proposal status.
func (r *ProposalRepository) SetStatus(ctx context.Context, id string, from, to domain.ProposalStatus) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, statusFilter(oid, string(from)), update)
	if err != nil {
		return storeErr("set proposal status", err, domain.ErrNotFound)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: proposal is no longer %s", domain.ErrInvalidTransition, from)
	}
	return nil
}

func (r *ProposalRepository) RejectPending(ctx context.Context, projectID, keepID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": projectID, "status": string(domain.ProposalPending)}
	if oid, err := primitive.ObjectIDFromHex(keepID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	update := bson.M{"$set": bson.M{"status": string(domain.ProposalRejected), "updated_at": time.Now().UTC()}}

	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return storeErr("reject pending proposals", err, domain.ErrNotFound)
	}
	return nil
}

func (r *ProposalRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return storeErr("delete proposals", err, domain.ErrNotFound)
	}
	return nil
}

func (r *ProposalRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeErr("count proposals", err, domain.ErrNotFound)
	}
	return n, nil
}
