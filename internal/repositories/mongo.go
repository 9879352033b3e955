package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohits-web03/notely/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection and field names are shared with existing notes databases;
// do not rename them.
const (
	usersCollection = "users"
	notesCollection = "notes"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedOn time.Time          `bson:"createdOn"`
}

type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Tags      []string           `bson:"tags"`
	IsPinned  bool               `bson:"isPinned"`
	UserID    string             `bson:"userId"`
	CreatedOn time.Time          `bson:"createdOn"`
	Image     string             `bson:"image"`
}

func (d userDocument) model() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Password:  d.Password,
		CreatedOn: d.CreatedOn,
	}
}

func (d noteDocument) model() models.Note {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      tags,
		IsPinned:  d.IsPinned,
		UserID:    d.UserID,
		CreatedOn: d.CreatedOn,
		Image:     d.Image,
	}
}

type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	notes  *mongo.Collection
}

// ConnectMongo dials uri, checks the connection and makes sure the indexes exist.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := NewMongoStore(client.Database(database))
	s.client = client
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users: db.Collection(usersCollection),
		notes: db.Collection(notesCollection),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	_, err = s.notes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isPinned", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notes index: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.Password,
		CreatedOn: u.CreatedOn,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) CreateNote(ctx context.Context, n *models.Note) error {
	doc := noteDocument{
		ID:        primitive.NewObjectID(),
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		IsPinned:  n.IsPinned,
		UserID:    n.UserID,
		CreatedOn: n.CreatedOn,
		Image:     n.Image,
	}
	if _, err := s.notes.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	n.ID = doc.ID.Hex()
	return nil
}

// ownedFilter is the only way notes are addressed in this store.
func ownedFilter(userID, noteID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": userID}, true
}

func (s *MongoStore) FindNote(ctx context.Context, userID, noteID string) (*models.Note, error) {
	filter, ok := ownedFilter(userID, noteID)
	if !ok {
		return nil, ErrNotFound
	}
	var doc noteDocument
	if err := s.notes.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	n := doc.model()
	return &n, nil
}

func (s *MongoStore) UpdateNote(ctx context.Context, n *models.Note) error {
	filter, ok := ownedFilter(n.UserID, n.ID)
	if !ok {
		return ErrNotFound
	}
	res, err := s.notes.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"title":    n.Title,
		"content":  n.Content,
		"tags":     n.Tags,
		"isPinned": n.IsPinned,
		"image":    n.Image,
	}})
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	filter, ok := ownedFilter(userID, noteID)
	if !ok {
		return ErrNotFound
	}
	res, err := s.notes.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "isPinned", Value: -1}, {Key: "createdOn", Value: -1}})
	cur, err := s.notes.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []noteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	notes := make([]models.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.model())
	}
	return notes, nil
}
