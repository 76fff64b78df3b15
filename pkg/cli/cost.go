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

	"github.com/urfave/cli/v3"

	"github.com/kitchenops/mise/pkg/engine"
)

// costReport is the cost command's output payload.
type costReport struct {
	Recipe    string                `json:"recipe" yaml:"recipe"`
	Slug      string                `json:"slug" yaml:"slug"`
	Breakdown *engine.CostBreakdown `json:"breakdown" yaml:"breakdown"`
}

func costCmd() *cli.Command {
	return &cli.Command{
		Name:                  "cost",
		EnableShellCompletion: true,
		Usage:                 "Resolve the ingredient cost of a recipe",
		Description: `Resolve every ingredient line of a recipe against the catalog's current
inventory prices and sub-recipe totals, producing a per-line breakdown and the
recipe total.

Inventory lines must use the item's canonical unit; sub-recipes are priced as
one indivisible unit at their current total cost.

# Examples

  mise cost --catalog kitchen.yaml --recipe pizza-base
  mise cost -f kitchen.yaml -r pizza-base --format table`,
		Flags: []cli.Flag{
			catalogFlag,
			&cli.StringFlag{
				Name:     "recipe",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "Recipe id or slug to cost",
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

			st, _, err := loadCatalog(ctx, cmd.String("catalog"))
			if err != nil {
				return err
			}

			rec, err := findRecipe(ctx, st, cmd.String("recipe"))
			if err != nil {
				return fmt.Errorf("failed to find recipe %q: %w", cmd.String("recipe"), err)
			}

			breakdown, err := engine.New(st).ResolveCost(ctx, rec.Ingredients)
			if err != nil {
				return fmt.Errorf("failed to resolve cost for %q: %w", rec.Slug, err)
			}

			return out.Serialize(ctx, costReport{
				Recipe:    rec.Name,
				Slug:      rec.Slug,
				Breakdown: breakdown,
			})
		},
	}
}
