package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/russiantown/portal/internal/backend"
	"github.com/russiantown/portal/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionPosts    = "posts"
	collectionCounters = "counters"
)

// Store is the MongoDB-backed store of the reference backend. Users and
// posts get integer ids from a counters collection so they match the ids
// the portal expects.
type Store struct {
	db       *mongo.Database
	users    *mongo.Collection
	posts    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

var _ backend.Store = (*Store)(nil)

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:       db,
		users:    db.Collection(collectionUsers),
		posts:    db.Collection(collectionPosts),
		counters: db.Collection(collectionCounters),
		now:      time.Now,
	}
}

type userDoc struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	Faction      string `bson:"faction"`
	CustomRole   string `bson:"custom_role"`
	Status       string `bson:"status"`
	Avatar       string `bson:"avatar"`
	IsBanned     bool   `bson:"is_banned"`
	IsMuted      bool   `bson:"is_muted"`
	CreatedAt    int64  `bson:"created_at"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:         d.ID,
		Username:   d.Username,
		Role:       domain.Role(d.Role),
		Faction:    d.Faction,
		CustomRole: d.CustomRole,
		Status:     d.Status,
		Avatar:     d.Avatar,
		IsBanned:   d.IsBanned,
		IsMuted:    d.IsMuted,
		CreatedAt:  millisToTimestamp(d.CreatedAt),
	}
}

type postDoc struct {
	ID        int64  `bson:"_id"`
	UserID    int64  `bson:"user_id"`
	Title     string `bson:"title"`
	Content   string `bson:"content"`
	CreatedAt int64  `bson:"created_at"`
}

// postWithAuthor is a post joined with its author by $lookup.
type postWithAuthor struct {
	postDoc `bson:",inline"`
	Author  userDoc `bson:"author"`
}

func (d postWithAuthor) toDomain() domain.Post {
	return domain.Post{
		ID:           d.ID,
		Title:        d.Title,
		Content:      d.Content,
		Author:       d.Author.Username,
		AuthorAvatar: d.Author.Avatar,
		CreatedAt:    millisToTimestamp(d.CreatedAt),
	}
}

// EnsureIndexes creates the indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	_, err = s.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("post indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: "$author"}},
	}
	cur, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postWithAuthor
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}

func (s *Store) CreateUser(ctx context.Context, nu backend.NewUser) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.nextID(ctx, collectionUsers)
	if err != nil {
		return domain.User{}, err
	}
	doc := userDoc{
		ID:           id,
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		Role:         string(nu.Role),
		CreatedAt:    s.now().UTC().UnixMilli(),
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, backend.ErrUserExists
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *Store) FindAccount(ctx context.Context, username string) (backend.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return backend.Account{}, domain.ErrUserNotFound
		}
		return backend.Account{}, fmt.Errorf("find user: %w", err)
	}
	return backend.Account{User: doc.toDomain(), PasswordHash: doc.PasswordHash}, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, patch backend.UserPatch) error {
	set := patchToSet(patch)
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the account and its posts.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	if _, err := s.posts.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return fmt.Errorf("delete posts of user %d: %w", id, err)
	}
	return nil
}

func (s *Store) CreatePost(ctx context.Context, userID int64, title, content string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := s.users.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrUserNotFound
	}

	id, err := s.nextID(ctx, collectionPosts)
	if err != nil {
		return 0, err
	}
	doc := postDoc{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC().UnixMilli(),
	}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return id, nil
}

// nextID atomically increments and returns the sequence for name.
func (s *Store) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func patchToSet(p backend.UserPatch) bson.M {
	set := bson.M{}
	if p.Role != nil {
		set["role"] = string(*p.Role)
	}
	if p.Faction != nil {
		set["faction"] = *p.Faction
	}
	if p.Avatar != nil {
		set["avatar"] = *p.Avatar
	}
	if p.IsBanned != nil {
		set["is_banned"] = *p.IsBanned
	}
	if p.IsMuted != nil {
		set["is_muted"] = *p.IsMuted
	}
	return set
}

func millisToTimestamp(ms int64) domain.Timestamp {
	if ms == 0 {
		return domain.Timestamp{}
	}
	return domain.Timestamp{Time: time.UnixMilli(ms).UTC()}
}
