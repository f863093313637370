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

const messagesCollection = "messages"

// MessageRepository implements ports.MessageRepository using MongoDB.
type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(messagesCollection)}
}

type mongoMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SenderID    string             `bson:"sender_id"`
	SenderName  string             `bson:"sender_name"`
	RecipientID string             `bson:"recipient_id"`
	Content     string             `bson:"content"`
	Read        bool               `bson:"read"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (m mongoMessage) toDomain() *domain.Message {
	return &domain.Message{
		ID:          m.ID.Hex(),
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure message indexes: %w", err)
	}
	return nil
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMessage{
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return storeErr("insert message", err, domain.ErrNotFound)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

// List returns the conversation newest first.
func (r *MessageRepository) List(ctx context.Context, accountID, peerID string, limit int) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(clampLimit(limit))

	cur, err := r.coll.Find(ctx, messageQuery(accountID, peerID), opts)
	if err != nil {
		return nil, storeErr("list messages", err, domain.ErrNotFound)
	}
	defer cur.Close(ctx)

	var docs []mongoMessage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode messages", err, domain.ErrNotFound)
	}

	out := make([]*domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func messageQuery(accountID, peerID string) bson.M {
	if peerID == "" {
		return bson.M{"$or": bson.A{
			bson.M{"sender_id": accountID},
			bson.M{"recipient_id": accountID},
		}}
	}
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": accountID, "recipient_id": peerID},
		bson.M{"sender_id": peerID, "recipient_id": accountID},
	}}
}

func (r *MessageRepository) MarkRead(ctx context.Context, id, recipientID string) (*domain.Message, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoMessage
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"read": true}},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, storeErr("mark message read", err, fmt.Errorf("message: %w", domain.ErrNotFound))
	}
	return doc.toDomain(), nil
}
