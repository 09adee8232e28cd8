package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/analytiq-hub/docrouter-tenants/internal/domain"
)

const orgCollection = "organizations"

// Compile-time interface assertion.
var _ OrgRepository = (*MongoOrgRepo)(nil)

// MongoOrgRepo implements OrgRepository on a MongoDB collection. Members are
// stored inline on the organization document; there is no join collection.
type MongoOrgRepo struct {
	col *mongo.Collection
}

// NewMongoOrgRepo binds the repository to the organizations collection of the
// injected database handle.
func NewMongoOrgRepo(db *mongo.Database) *MongoOrgRepo {
	return &MongoOrgRepo{col: db.Collection(orgCollection)}
}

// EnsureIndexes creates the unique slug index and the membership lookup
// index. Safe to call on every boot.
func (r *MongoOrgRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "slug", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
		{
			Keys: bson.D{{Key: "members.user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create organization indexes: %w", err)
	}
	return nil
}

func (r *MongoOrgRepo) Insert(ctx context.Context, org domain.Organization) error {
	if _, err := r.col.InsertOne(ctx, org); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.WrapE(domain.KindConflict, "organization already exists", err)
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (r *MongoOrgRepo) Get(ctx context.Context, id string) (domain.Organization, error) {
	var org domain.Organization
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Organization{}, domain.E(domain.KindNotFound, "organization not found")
		}
		return domain.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func (r *MongoOrgRepo) GetBySlug(ctx context.Context, slug string) (domain.Organization, error) {
	var org domain.Organization
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&org)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Organization{}, domain.E(domain.KindNotFound, "organization not found")
		}
		return domain.Organization{}, fmt.Errorf("get organization by slug: %w", err)
	}
	return org, nil
}

func (r *MongoOrgRepo) ListByMember(ctx context.Context, userID string) ([]domain.Organization, error) {
	cursor, err := r.col.Find(ctx, bson.M{"members.user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer cursor.Close(ctx)

	orgs := make([]domain.Organization, 0)
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, fmt.Errorf("decode organizations: %w", err)
	}
	return orgs, nil
}

func (r *MongoOrgRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count slug: %w", err)
	}
	return count > 0, nil
}
