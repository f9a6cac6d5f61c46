package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

const (
	indexUsername = "users_username_unique"
	indexEmail    = "users_email_unique"
)

type UserRepository struct {
	col      *mongo.Collection
	reviews  *mongo.Collection
	comments *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:      db.Collection(collectionUsers),
		reviews:  db.Collection(collectionReviews),
		comments: db.Collection(collectionComments),
	}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Bio          string             `bson:"bio"`
	Role         string             `bson:"role"`
	IsSuperuser  bool               `bson:"is_superuser"`
	IsActive     bool               `bson:"is_active"`
	LastLogin    *time.Time         `bson:"last_login,omitempty"`
	CodeIssuedAt *time.Time         `bson:"code_issued_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Bio:          u.Bio,
		Role:         u.Role.String(),
		IsSuperuser:  u.IsSuperuser,
		IsActive:     u.IsActive,
		LastLogin:    timePtr(u.LastLogin),
		CodeIssuedAt: timePtr(u.CodeIssuedAt),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDoc) toDomain() (*domain.User, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("decode user %s: %w", d.ID.Hex(), err)
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Bio:          d.Bio,
		Role:         role,
		IsSuperuser:  d.IsSuperuser,
		IsActive:     d.IsActive,
		LastLogin:    timeVal(d.LastLogin),
		CodeIssuedAt: timeVal(d.CodeIssuedAt),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

// userConflict maps a duplicate-key error onto the field that collided.
func userConflict(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, indexUsername):
		return domain.ErrUsernameTaken
	case strings.Contains(msg, indexEmail):
		return domain.ErrEmailTaken
	default:
		return domain.ErrConflict
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, userConflict(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Update writes the profile fields of user. Code and login state are left
// alone; only ConsumeCode and MarkCodeIssued move them.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, ok := parseID(user.ID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"bio":        user.Bio,
		"role":       user.Role.String(),
		"updated_at": user.UpdatedAt.UTC(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, userConflict(err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Delete removes the user, then their reviews with every comment under them,
// then their remaining comments.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}

	if err := deleteReviews(ctx, r.reviews, r.comments, bson.M{"author_id": oid}); err != nil {
		return fmt.Errorf("delete user reviews: %w", err)
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"author_id": oid}); err != nil {
		return fmt.Errorf("delete user comments: %w", err)
	}
	return nil
}

// MarkCodeIssued is a compare-and-swap on code_issued_at. Of two requests
// stamping over the same previous value only one matches the filter.
func (r *UserRepository) MarkCodeIssued(ctx context.Context, id string, prev, at time.Time) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, issueFilter(oid, prev), bson.M{"$set": bson.M{"code_issued_at": at.UTC()}})
	if err != nil {
		return fmt.Errorf("mark code issued: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mark code issued: %w", domain.ErrConflict)
	}
	return nil
}

func issueFilter(id primitive.ObjectID, prev time.Time) bson.M {
	return bson.M{"_id": id, "code_issued_at": timePtr(prev)}
}

// ConsumeCode is a compare-and-swap on (last_login, code_issued_at). Of two
// concurrent redemptions of one code at most one matches the filter.
func (r *UserRepository) ConsumeCode(ctx context.Context, id string, lastLogin, codeIssuedAt, now time.Time) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrInvalidCredential
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, consumeFilter(oid, lastLogin, codeIssuedAt), bson.M{
		"$set":   bson.M{"is_active": true, "last_login": now.UTC()},
		"$unset": bson.M{"code_issued_at": ""},
	})
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidCredential
	}
	return nil
}

func consumeFilter(id primitive.ObjectID, lastLogin, codeIssuedAt time.Time) bson.M {
	return bson.M{
		"_id":            id,
		"last_login":     timePtr(lastLogin),
		"code_issued_at": timePtr(codeIssuedAt),
	}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUsername)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexEmail)},
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}
