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

const projectsCollection = "projects"

// ProjectRepository implements ports.ProjectRepository using MongoDB.
type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

type mongoProject struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ClientID       string             `bson:"client_id"`
	ContractorID   string             `bson:"contractor_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Budget         float64            `bson:"budget"`
	SkillsRequired []string           `bson:"skills_required"`
	Status         string             `bson:"status"`
	Progress       int                `bson:"progress"`
	ProgressNotes  string             `bson:"progress_notes,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func projectFromDomain(p *domain.Project) mongoProject {
	return mongoProject{
		ClientID:       p.ClientID,
		ContractorID:   p.ContractorID,
		Title:          p.Title,
		Description:    p.Description,
		Budget:         p.Budget,
		SkillsRequired: p.SkillsRequired,
		Status:         string(p.Status),
		Progress:       p.Progress,
		ProgressNotes:  p.ProgressNotes,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

func (m mongoProject) toDomain() *domain.Project {
	skills := m.SkillsRequired
	if skills == nil {
		skills = []string{}
	}
	return &domain.Project{
		ID:             m.ID.Hex(),
		ClientID:       m.ClientID,
		ContractorID:   m.ContractorID,
		Title:          m.Title,
		Description:    m.Description,
		Budget:         m.Budget,
		SkillsRequired: skills,
		Status:         domain.ProjectStatus(m.Status),
		Progress:       m.Progress,
		ProgressNotes:  m.ProgressNotes,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "contractor_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "skills_required", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure project indexes: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, projectFromDomain(p))
	if err != nil {
		return storeErr("insert project", err, domain.ErrNotFound)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProject
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, storeErr("find project", err, fmt.Errorf("project: %w", domain.ErrNotFound))
	}
	return doc.toDomain(), nil
}

// List returns projects matching filter, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(clampLimit(filter.Limit))

	cur, err := r.coll.Find(ctx, projectQuery(filter), opts)
	if err != nil {
		return nil, storeErr("list projects", err, domain.ErrNotFound)
	}
	defer cur.Close(ctx)

	var docs []mongoProject
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode projects", err, domain.ErrNotFound)
	}

	out := make([]*domain.Project, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func projectQuery(filter ports.ProjectFilter) bson.M {
	query := bson.M{}
	if filter.ClientID != "" {
		query["client_id"] = filter.ClientID
	}
	if filter.ContractorID != "" {
		query["contractor_id"] = filter.ContractorID
	}
	switch len(filter.Statuses) {
	case 0:
	case 1:
		query["status"] = string(filter.Statuses[0])
	default:
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query["status"] = bson.M{"$in": statuses}
	}
	if len(filter.Skills) > 0 {
		query["skills_required"] = bson.M{"$in": filter.Skills}
	}
	return query
}

// Update overwrites the mutable fields of the project if its stored status
// still equals expected.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project, expected domain.ProjectStatus) error {
	oid, err := parseID(p.ID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"contractor_id":   p.ContractorID,
		"title":           p.Title,
		"description":     p.Description,
		"budget":          p.Budget,
		"skills_required": p.SkillsRequired,
		"status":          string(p.Status),
		"progress":        p.Progress,
		"progress_notes":  p.ProgressNotes,
		"updated_at":      p.UpdatedAt.UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, statusFilter(oid, string(expected)), update)
	if err != nil {
		return storeErr("update project", err, domain.ErrNotFound)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: project is no longer %s", domain.ErrInvalidTransition, expected)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id, clientID string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "client_id": clientID})
	if err != nil {
		return storeErr("delete project", err, domain.ErrNotFound)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("project: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[domain.ProjectStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	counts, err := countGrouped(ctx, r.coll, "$status")
	if err != nil {
		return nil, storeErr("count projects by status", err, domain.ErrNotFound)
	}
	out := make(map[domain.ProjectStatus]int64, len(counts))
	for k, v := range counts {
		out[domain.ProjectStatus(k)] = v
	}
	return out, nil
}
