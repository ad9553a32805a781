// Package mongo is the MongoDB task store. Tasks live in the "task"
// collection of the database named in the connection string.
package mongo

import (
	"context"
	stderrors "errors"
	"strconv"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "list"

const connectTimeout = 10 * time.Second

// taskDocument is the stored shape. overDue is omitted until set.
type taskDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Checked checkedField       `bson:"checked"`
	DueDate dueDateField       `bson:"dueDate"`
	OverDue bool               `bson:"overDue,omitempty"`
}

func (d taskDocument) toDomain() *domain.Task {
	return &domain.Task{
		ID:      d.ID.Hex(),
		Name:    d.Name,
		Checked: d.Checked.marker,
		DueDate: string(d.DueDate),
		OverDue: d.OverDue,
	}
}

func documentFrom(t *domain.Task, id primitive.ObjectID) taskDocument {
	c := t.Clone()
	return taskDocument{
		ID:      id,
		Name:    c.Name,
		Checked: checkedField{marker: c.Checked},
		DueDate: dueDateField(c.DueDate),
		OverDue: c.OverDue,
	}
}

// checkedField is written as a string or null. Documents written by other
// clients may hold any BSON value; null and undefined mean not done and
// every other value is kept as a marker.
type checkedField struct {
	marker *string
}

func (c checkedField) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if c.marker == nil {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(*c.marker)
}

func (c *checkedField) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		c.marker = nil
	case bson.TypeString:
		c.marker = domain.StringPtr(raw.StringValue())
	case bson.TypeBoolean:
		c.marker = domain.StringPtr(strconv.FormatBool(raw.Boolean()))
	case bson.TypeInt32:
		c.marker = domain.StringPtr(strconv.FormatInt(int64(raw.Int32()), 10))
	case bson.TypeInt64:
		c.marker = domain.StringPtr(strconv.FormatInt(raw.Int64(), 10))
	case bson.TypeDouble:
		c.marker = domain.StringPtr(strconv.FormatFloat(raw.Double(), 'g', -1, 64))
	default:
		c.marker = domain.StringPtr(raw.String())
	}
	return nil
}

// dueDateField is written as the string the user entered. BSON dates are
// read back as RFC3339 in UTC; other non-string values as their extended
// JSON text, which does not parse as a date.
type dueDateField string

func (d dueDateField) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(d))
}

func (d *dueDateField) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*d = ""
	case bson.TypeString:
		*d = dueDateField(raw.StringValue())
	case bson.TypeDateTime:
		*d = dueDateField(time.UnixMilli(raw.DateTime()).UTC().Format(time.RFC3339))
	default:
		*d = dueDateField(raw.String())
	}
	return nil
}

// MongoRepository implements repository.Repository on a MongoDB collection.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection

	mu     sync.RWMutex
	closed bool
}

var _ repository.Repository = (*MongoRepository)(nil)

// Connect dials uri, verifies the connection and ensures the unique name index.
func Connect(ctx context.Context, uri string) (*MongoRepository, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, errors.NewDatabaseError("parse connection string", err)
	}
	database := cs.Database
	if database == "" {
		database = DefaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.NewDatabaseError("connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.NewDatabaseError("ping", err)
	}

	repo := &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(repository.CollectionName),
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.Info().Str("database", database).Msg("connected to MongoDB")
	return repo, nil
}

func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return errors.NewDatabaseError("create name index", err)
	}
	return nil
}

// Close disconnects the client. Later calls are no-ops.
func (r *MongoRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) coll() (*mongo.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, repository.NewClosedError()
	}
	return r.collection, nil
}

// InsertTask inserts a new document and copies the generated ObjectID back.
func (r *MongoRepository) InsertTask(ctx context.Context, task *domain.Task) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}

	doc := documentFrom(task, primitive.NewObjectID())
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return writeError("insert task", task.Name, err)
	}
	task.ID = doc.ID.Hex()
	return nil
}

// UpdateTask replaces the document with task's fields. Unknown or malformed
// IDs match nothing and are not an error.
func (r *MongoRepository) UpdateTask(ctx context.Context, task *domain.Task) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil
	}

	if _, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, documentFrom(task, id)); err != nil {
		return writeError("update task", task.Name, err)
	}
	return nil
}

// FindTask returns nil, nil when no document matches.
func (r *MongoRepository) FindTask(ctx context.Context, id string) (*domain.Task, error) {
	coll, err := r.coll()
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc taskDocument
	err = coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find task", err)
	}
	return doc.toDomain(), nil
}

// ListTasks returns every document in the collection.
func (r *MongoRepository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	coll, err := r.coll()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.NewDatabaseError("list tasks", err)
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.NewDatabaseError("decode tasks", err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toDomain())
	}
	return tasks, nil
}

// DeleteTask removes one document; a missing or malformed id is a no-op.
func (r *MongoRepository) DeleteTask(ctx context.Context, id string) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.NewDatabaseError("delete task", err)
	}
	return nil
}

func writeError(operation, name string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return errors.NewDuplicateNameError(name, err)
	}
	return errors.NewDatabaseError(operation, err).WithContext("name", name)
}
