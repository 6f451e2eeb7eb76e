// Package mongostore keeps customers and their dates in MongoDB collections.
package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nicolas44373/clientes/internal/domain"
)

// Collection names.
const (
	CustomersCollection = "customers"
	DatesCollection     = "customer_dates"
)

// Store keeps customers in a MongoDB database.
type Store struct {
	client    *mongo.Client
	customers *mongo.Collection
	dates     *mongo.Collection
}

// Open connects to uri, pings the server and ensures the indexes exist.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:    client,
		customers: db.Collection(CustomersCollection),
		dates:     db.Collection(DatesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Printf("connected to MongoDB database %s", dbName)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create customers index: %w", err)
	}
	_, err = s.dates.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customer_code", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create dates index: %w", err)
	}
	return nil
}

// Close disconnects from the server.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// FetchAll returns every customer ordered by code.
func (s *Store) FetchAll(ctx context.Context) ([]domain.Customer, error) {
	cursor, err := s.customers.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	var out []domain.Customer
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return out, nil
}

// Insert adds a customer; the unique index turns duplicates into domain.ErrConflict.
func (s *Store) Insert(ctx context.Context, c domain.Customer) error {
	if _, err := s.customers.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("customer %d: %w", c.Code, domain.ErrConflict)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update sets the non-nil fields of u.
func (s *Store) Update(ctx context.Context, code int, u domain.CustomerUpdate) error {
	set := bson.D{}
	add := func(field string, v *string) {
		if v != nil {
			set = append(set, bson.E{Key: field, Value: *v})
		}
	}
	add("description", u.Description)
	add("status", u.Status)
	add("reference_date", u.ReferenceDate)
	add("phone", u.Phone)
	if len(set) == 0 {
		return fmt.Errorf("no fields to update: %w", domain.ErrValidation)
	}

	res, err := s.customers.UpdateOne(ctx, bson.M{"code": code}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
	}
	return nil
}

// DeleteByKey removes a customer and then its dates.
func (s *Store) DeleteByKey(ctx context.Context, code int) error {
	res, err := s.customers.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
	}
	if _, err := s.dates.DeleteMany(ctx, bson.M{"customer_code": code}); err != nil {
		log.Printf("Warning: customer %d deleted but its dates were not: %v", code, err)
	}
	return nil
}

// ListDates returns the dates of a customer ordered by date.
func (s *Store) ListDates(ctx context.Context, code int) ([]domain.DateEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := s.dates.Find(ctx, bson.M{"customer_code": code}, opts)
	if err != nil {
		return nil, fmt.Errorf("find dates: %w", err)
	}
	var out []domain.DateEntry
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode dates: %w", err)
	}
	return out, nil
}

// InsertDate records a date for an existing customer.
func (s *Store) InsertDate(ctx context.Context, code int, date string) (domain.DateEntry, error) {
	n, err := s.customers.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return domain.DateEntry{}, fmt.Errorf("lookup customer: %w", err)
	}
	if n == 0 {
		return domain.DateEntry{}, fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
	}

	entry := domain.DateEntry{
		ID:           uuid.NewString(),
		CustomerCode: code,
		Date:         date,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.dates.InsertOne(ctx, entry); err != nil {
		return domain.DateEntry{}, fmt.Errorf("insert date: %w", err)
	}
	return entry, nil
}

// DeleteDate removes one date entry of a customer.
func (s *Store) DeleteDate(ctx context.Context, code int, id string) error {
	res, err := s.dates.DeleteOne(ctx, bson.M{"_id": id, "customer_code": code})
	if err != nil {
		return fmt.Errorf("delete date: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("date %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

