package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type boxDocument struct {
	BoxID     string            `bson:"_id"`
	Items     []domain.CartItem `bson:"cart"`
	Discount  *domain.Discount  `bson:"discount"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// MongoStore keeps one document per box; cart and discount are replaced
// together by a single upsert.
type MongoStore struct {
	collection *mongo.Collection
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := pingOrDisconnect(ctx, client); err != nil {
		return nil, err
	}

	return client.Database(database), nil
}

// pingOrDisconnect releases the client when the server cannot be reached.
func pingOrDisconnect(ctx context.Context, client *mongo.Client) error {
	if err := client.Ping(ctx, nil); err != nil {
		if errDisconnect := client.Disconnect(context.Background()); errDisconnect != nil {
			log.Warn().Err(errDisconnect).Msg("failed to disconnect MongoDB client")
		}
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("boxes"),
	}
}

func (m *MongoStore) Load(ctx context.Context, boxID string) (domain.Box, error) {
	res := m.collection.FindOne(ctx, bson.M{"_id": boxID})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Box{}, nil
		}
		return domain.Box{}, fmt.Errorf("failed to get box: %w", err)
	}

	var doc boxDocument
	if err := res.Decode(&doc); err != nil {
		log.Debug().Err(err).Str("box_id", boxID).Msg("discarding unreadable box document")
		return domain.Box{}, nil
	}

	return domain.Box{
		Items:    normalizeItems(doc.Items),
		Discount: validDiscount(doc.Discount),
	}, nil
}

func (m *MongoStore) Save(ctx context.Context, boxID string, box domain.Box) error {
	items := box.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	doc := boxDocument{
		BoxID:     boxID,
		Items:     items,
		Discount:  box.Discount,
		UpdatedAt: time.Now(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": boxID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert box: %w", err)
	}
	return nil
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
