// Package archive stores export documents in MongoDB so research runs can
// be compared and re-downloaded later. Documents are archived as their
// canonical JSON payload next to the summary metadata, which keeps the
// stored shape independent of the in-memory node types.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/export"
)

// Default connection parameters.
const (
	DefaultDatabase   = "bioguard"
	DefaultCollection = "exports"

	connectTimeout = 10 * time.Second
)

// Record is one archived export.
type Record struct {
	ID        string          `bson:"_id" json:"id"`
	Label     string          `bson:"label" json:"label"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	Metadata  export.Metadata `bson:"metadata" json:"metadata"`
	Payload   []byte          `bson:"payload" json:"-"`
}

// Store archives export documents in a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect opens a Store against the given MongoDB URI, using the default
// database and collection when the arguments are empty.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "failed to connect to archive store")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "archive store is unreachable")
	}

	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Put archives a document under a fresh uuid and returns its id.
func (s *Store) Put(ctx context.Context, label string, doc *export.Document) (string, error) {
	payload, err := export.Marshal(doc)
	if err != nil {
		return "", err
	}

	rec := Record{
		ID:        uuid.NewString(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
		Metadata:  doc.Metadata,
		Payload:   payload,
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to archive export")
	}
	return rec.ID, nil
}

// Get retrieves an archived export by id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "archived export %s not found", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to load archived export")
	}
	return &rec, nil
}

// List returns up to limit archive records, newest first, without payloads.
func (s *Store) List(ctx context.Context, limit int64) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"payload": 0})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to list archived exports")
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to decode archive records")
	}
	return records, nil
}

// Delete removes an archived export by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to delete archived export")
	}
	if res.DeletedCount == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "archived export %s not found", id)
	}
	return nil
}

// Close disconnects from the store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
