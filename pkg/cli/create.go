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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/kitchenops/mise/pkg/engine"
	"github.com/kitchenops/mise/pkg/serializer"
	"github.com/kitchenops/mise/pkg/store"
	mongostore "github.com/kitchenops/mise/pkg/store/mongo"
)

func createCmd() *cli.Command {
	return &cli.Command{
		Name:                  "create",
		EnableShellCompletion: true,
		Usage:                 "Create a recipe with its variants atomically",
		Description: `Create a recipe together with all of its variants from an input file. The
whole creation either commits or leaves nothing behind: on a transaction
capable MongoDB deployment (replica set or mongos) the writes run in one
transaction; otherwise partial writes are compensated with best-effort
deletes before the original error is reported.

Against a catalog file the creation runs in memory and the result is only
printed, which makes a dry run:

  mise create --catalog kitchen.yaml --input margherita.yaml

Against MongoDB the recipe and variants are persisted:

  mise create --mongo-uri mongodb://localhost:27017 --mongo-db kitchen \
    --input margherita.yaml

The input file carries the recipe fields plus a variants list:

  name: Pizza Margherita
  type: final
  ingredients:
    - sourceType: recipe
      sourceId: rec-dough
      quantity: 1
      unit: unit
  variants:
    - name: Family
      sizeMultiplier: 2`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"f"},
				Sources: cli.EnvVars("MISE_CATALOG"),
				Usage:   "Path to the catalog file (in-memory dry run mode)",
			},
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "Path to the recipe input file (YAML or JSON)",
			},
			&cli.StringFlag{
				Name:    "mongo-uri",
				Sources: cli.EnvVars("MISE_MONGO_URI"),
				Usage:   "MongoDB connection URI (persisting mode)",
			},
			&cli.StringFlag{
				Name:    "mongo-db",
				Value:   "mise",
				Sources: cli.EnvVars("MISE_MONGO_DB"),
				Usage:   "MongoDB database name",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutputWriter(cmd)
			if err != nil {
				return err
			}
			defer closeOutput(out)

			in, err := serializer.FromFile[engine.CreateRecipeInput](cmd.String("input"))
			if err != nil {
				return fmt.Errorf("failed to load recipe input: %w", err)
			}

			st, cleanup, err := openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := engine.New(st).CreateRecipeWithVariants(ctx, *in)
			if err != nil {
				return fmt.Errorf("failed to create recipe %q: %w", in.Name, err)
			}

			return out.Serialize(ctx, res)
		},
	}
}

// openStore picks the backend from the create command's flags: MongoDB when
// --mongo-uri is set, otherwise an in-memory store seeded from --catalog.
func openStore(ctx context.Context, cmd *cli.Command) (store.Store, func(), error) {
	if uri := cmd.String("mongo-uri"); uri != "" {
		ms, err := mongostore.New(ctx, mongostore.Config{
			URI:      uri,
			Database: cmd.String("mongo-db"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		cleanup := func() {
			if cerr := ms.Close(ctx); cerr != nil {
				slog.Warn("failed to close MongoDB connection", "error", cerr)
			}
		}
		return ms, cleanup, nil
	}

	path := cmd.String("catalog")
	if path == "" {
		return nil, nil, fmt.Errorf("either --catalog or --mongo-uri is required")
	}
	st, _, err := loadCatalog(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return st, func() {}, nil
}
