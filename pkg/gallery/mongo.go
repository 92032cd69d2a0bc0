package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/trazo/pkg/cache"
	terrors "github.com/matzehuels/trazo/pkg/errors"
)

// Mongo defaults.
const (
	DefaultDatabase   = "trazo"
	DefaultCollection = "images"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps images as documents, PNG bytes inline.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type imageDoc struct {
	Image `bson:",inline"`
	Data  []byte `bson:"data"`
}

// NewMongoStore connects, pings, and ensures a unique index on name.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

func (s *MongoStore) Save(ctx context.Context, e Entry, data []byte) (Image, error) {
	if err := terrors.ValidateFilename(e.Name); err != nil {
		return Image{}, err
	}
	kind := e.Kind
	if kind == "" {
		kind = KindOf(e.Name)
	}

	name := e.Name
	for n := 2; n <= maxSuffix+1; n++ {
		doc := imageDoc{
			Image: Image{
				Name:      name,
				Kind:      kind,
				Input:     e.Input,
				Size:      len(data),
				CreatedAt: s.now().UTC(),
			},
			Data: data,
		}
		_, err := s.coll.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			name = withSuffix(e.Name, n)
			continue
		}
		if err != nil {
			return Image{}, classify(fmt.Errorf("mongo insert: %w", err))
		}
		doc.Location = s.location(name)
		return doc.Image, nil
	}
	return Image{}, fmt.Errorf("no free name for %s", e.Name)
}

func (s *MongoStore) Load(ctx context.Context, name string) ([]byte, error) {
	var doc imageDoc
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(fmt.Errorf("mongo find: %w", err))
	}
	return doc.Data, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Image, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"data": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(fmt.Errorf("mongo list: %w", err))
	}
	var images []Image
	if err := cur.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	for i := range images {
		images[i].Location = s.location(images[i].Name)
	}
	return images, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) location(name string) string {
	return "mongodb://" + s.coll.Database().Name() + "/" + s.coll.Name() + "/" + name
}

// classify marks transient driver errors as retryable.
func classify(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(err)
	}
	return err
}

var _ Store = (*MongoStore)(nil)
