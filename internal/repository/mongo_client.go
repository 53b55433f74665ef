package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/alexanderramin/coachdesk/internal/domain"
)

// CollectionClients holds one document per client keyed by client id.
const CollectionClients = "clients"

// MongoClientRepo implements ClientRepo on a MongoDB collection.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo creates a MongoClientRepo over the clients collection of database.
func NewMongoClientRepo(database *mongo.Database) *MongoClientRepo {
	return &MongoClientRepo{coll: database.Collection(CollectionClients)}
}

// ConnectMongo opens a client for uri and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

func (r *MongoClientRepo) Create(ctx context.Context, c *domain.Client) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(c)); err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *MongoClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("finding client: %w", err)
	}
	return clientFromTree(plain(doc)), nil
}

func (r *MongoClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer cursor.Close(ctx)

	var clients []*domain.Client
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding client: %w", err)
		}
		clients = append(clients, clientFromTree(plain(doc)))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return clients, nil
}

func (r *MongoClientRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MongoClientRepo) UpdateProfile(ctx context.Context, c *domain.Client) error {
	return r.set(ctx, c.ID, bson.D{
		{Key: "name", Value: c.Name},
		{Key: "email", Value: c.Email},
		{Key: "phone", Value: c.Phone},
		{Key: "role", Value: string(c.Role)},
		{Key: "status", Value: string(c.Status)},
	})
}

func (r *MongoClientRepo) UpdateBillingRecord(ctx context.Context, id string, rec domain.BillingRecord) error {
	return r.replaceDocument(ctx, id, keyBilling, billingToDocument(rec))
}

func (r *MongoClientRepo) UpdateChecklistProgress(ctx context.Context, id string, completed []domain.StepID) error {
	return r.replaceDocument(ctx, id, keyCompleted, completedToDocument(completed))
}

func (r *MongoClientRepo) UpdateChecklistData(ctx context.Context, id string, rec domain.ChecklistRecord) error {
	return r.replaceDocument(ctx, id, keyChecklist, checklistToDocument(rec))
}

func (r *MongoClientRepo) UpdateChecklistPhase(ctx context.Context, id string, access domain.ChecklistAccess) error {
	return r.set(ctx, id, bson.D{{Key: "checklistAccess", Value: string(access)}})
}

func (r *MongoClientRepo) set(ctx context.Context, id string, fields bson.D) error {
	fields = append(fields, bson.E{Key: "updatedAt", Value: time.Now().UTC()})
	update := bson.D{{Key: "$set", Value: fields}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}

// replaceDocument sets key only while the fields it depends on read back
// fully, and only if they are unchanged when the update lands.
func (r *MongoClientRepo) replaceDocument(ctx context.Context, id, key string, value any) error {
	guards := writeGuards(key)
	projection := bson.D{}
	for _, g := range guards {
		projection = append(projection, bson.E{Key: g, Value: 1})
	}

	var current bson.Raw
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(projection)).Decode(&current)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("finding client: %w", err)
	}

	filter := bson.D{{Key: "_id", Value: id}}
	for _, g := range guards {
		rv, err := current.LookupErr(g)
		if err != nil {
			filter = append(filter, bson.E{Key: g, Value: bson.M{"$exists": false}})
			continue
		}
		var tree any
		if err := rv.Unmarshal(&tree); err != nil || !fieldReadable(g, plain(tree)) {
			return fmt.Errorf("client %s %s: %w", id, g, ErrUnreadableDocument)
		}
		filter = append(filter, bson.E{Key: g, Value: rv})
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: key, Value: value},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("updating client %s: %w", key, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("client %s: %w", id, ErrConcurrentUpdate)
	}
	return nil
}
