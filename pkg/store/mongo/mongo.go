// Copyright (c) 2025, KitchenOps Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/store"
)

// Compile-time contract assertion ensuring the store satisfies the engine interface.
var _ store.Store = (*Store)(nil)

const (
	collRecipes   = "recipes"
	collVariants  = "recipe_variants"
	collInventory = "inventory_items"

	defaultConnectTimeout = 10 * time.Second
)

// Config holds MongoDB connection settings.
type Config struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database holding the recipe collections.
	Database string

	// ConnectTimeout bounds the initial connect and ping. Zero uses the
	// default of 10s.
	ConnectTimeout time.Duration
}

// Store is a MongoDB-backed implementation of store.Store.
//
// Transaction capability is decided by probing the server topology: replica
// sets and mongos front-ends support multi-document transactions, standalone
// servers do not. The probe runs per call so a topology change (e.g. a
// replica set losing its primary) is observed on the next creation.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and returns a ready store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, miserrors.New(miserrors.ErrCodeInvalidRequest, "mongo URI is required")
	}
	if cfg.Database == "" {
		return nil, miserrors.New(miserrors.ErrCodeInvalidRequest, "mongo database name is required")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "failed to connect to mongo", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "failed to ping mongo", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetItem implements store.InventoryLookup.
func (s *Store) GetItem(ctx context.Context, id string) (*catalog.InventoryItem, error) {
	var item catalog.InventoryItem
	err := s.db.Collection(collInventory).FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "inventory item %q not found", id)
	}
	if err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "inventory lookup failed", err)
	}
	return &item, nil
}

// GetRecipe implements store.RecipeStore.
func (s *Store) GetRecipe(ctx context.Context, id string) (*catalog.Recipe, error) {
	return s.findRecipe(ctx, bson.M{"_id": id}, fmt.Sprintf("recipe %q not found", id))
}

// GetRecipeBySlug implements store.RecipeStore.
func (s *Store) GetRecipeBySlug(ctx context.Context, slug string) (*catalog.Recipe, error) {
	return s.findRecipe(ctx, bson.M{"slug": slug}, fmt.Sprintf("recipe with slug %q not found", slug))
}

func (s *Store) findRecipe(ctx context.Context, filter bson.M, missing string) (*catalog.Recipe, error) {
	var r catalog.Recipe
	err := s.db.Collection(collRecipes).FindOne(ctx, filter).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, miserrors.New(miserrors.ErrCodeNotFound, missing)
	}
	if err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "recipe lookup failed", err)
	}
	return &r, nil
}

// CreateRecipe implements store.RecipeStore.
func (s *Store) CreateRecipe(ctx context.Context, r *catalog.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.Collection(collRecipes).InsertOne(ctx, r)
	if mongo.IsDuplicateKeyError(err) {
		// The insert can collide on the unique slug index or on _id; name
		// the violated field so an id collision is not misread as a slug
		// conflict.
		cctx := map[string]any{"id": r.ID, "slug": r.Slug}
		if field := duplicateKeyField(err); field != "" {
			cctx["field"] = field
		}
		return miserrors.NewWithContext(miserrors.ErrCodeConflict,
			"recipe violates a uniqueness constraint", cctx)
	}
	if err != nil {
		return miserrors.Wrap(miserrors.ErrCodeInternal, "failed to insert recipe", err)
	}
	return nil
}

// duplicateKeyField extracts the offending field from a duplicate-key write
// error. The server names the violated index in the message, e.g.
// "E11000 ... index: slug_1 dup key: ...".
func duplicateKeyField(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "slug"):
		return "slug"
	case strings.Contains(msg, "_id"):
		return "id"
	default:
		return ""
	}
}

// UpdateRecipe implements store.RecipeStore.
func (s *Store) UpdateRecipe(ctx context.Context, id string, patch store.RecipePatch) (*catalog.Recipe, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Code != nil {
		set["code"] = *patch.Code
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.Ingredients != nil {
		set["ingredients"] = *patch.Ingredients
	}
	if patch.Yield != nil {
		set["yield"] = *patch.Yield
	}
	if patch.TotalCost != nil {
		set["total_cost"] = *patch.TotalCost
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r catalog.Recipe
	err := s.db.Collection(collRecipes).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "recipe %q not found", id)
	}
	if err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "failed to update recipe", err)
	}
	return &r, nil
}

// DeleteRecipe implements store.RecipeStore.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.Collection(collRecipes).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return miserrors.Wrap(miserrors.ErrCodeInternal, "failed to delete recipe", err)
	}
	if res.DeletedCount == 0 {
		return miserrors.Newf(miserrors.ErrCodeNotFound, "recipe %q not found", id)
	}
	return nil
}

// GetVariant implements store.VariantStore.
func (s *Store) GetVariant(ctx context.Context, id string) (*catalog.RecipeVariant, error) {
	var v catalog.RecipeVariant
	err := s.db.Collection(collVariants).FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "variant %q not found", id)
	}
	if err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "variant lookup failed", err)
	}
	return &v, nil
}

// ListVariants implements store.VariantStore.
func (s *Store) ListVariants(ctx context.Context, recipeID string) ([]*catalog.RecipeVariant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.db.Collection(collVariants).Find(ctx, bson.M{"recipe_id": recipeID}, opts)
	if err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "variant list failed", err)
	}
	defer cur.Close(ctx)

	var out []*catalog.RecipeVariant
	for cur.Next(ctx) {
		var v catalog.RecipeVariant
		if err := cur.Decode(&v); err != nil {
			return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "variant decode failed", err)
		}
		out = append(out, &v)
	}
	if err := cur.Err(); err != nil {
		return nil, miserrors.Wrap(miserrors.ErrCodeInternal, "variant cursor failed", err)
	}
	return out, nil
}

// CreateVariant implements store.VariantStore.
func (s *Store) CreateVariant(ctx context.Context, v *catalog.RecipeVariant) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := s.db.Collection(collVariants).InsertOne(ctx, v)
	if mongo.IsDuplicateKeyError(err) {
		return miserrors.Newf(miserrors.ErrCodeConflict, "variant %q already exists", v.ID)
	}
	if err != nil {
		return miserrors.Wrap(miserrors.ErrCodeInternal, "failed to insert variant", err)
	}
	return nil
}

// DeleteVariant implements store.VariantStore.
func (s *Store) DeleteVariant(ctx context.Context, id string) error {
	res, err := s.db.Collection(collVariants).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return miserrors.Wrap(miserrors.ErrCodeInternal, "failed to delete variant", err)
	}
	if res.DeletedCount == 0 {
		return miserrors.Newf(miserrors.ErrCodeNotFound, "variant %q not found", id)
	}
	return nil
}

// RunInTransaction implements store.TxRunner using a client session. Every
// store call inside fn must use the context fn receives, so the driver routes
// it through the session.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return miserrors.Wrap(miserrors.ErrCodeInternal, "failed to start mongo session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}
