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
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/kitchenops/mise/pkg/engine"
)

// consumptionLine is one aggregated inventory requirement.
type consumptionLine struct {
	ItemID   string  `json:"itemId" yaml:"itemId"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Unit     string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

// flattenReport is the flatten command's output payload.
type flattenReport struct {
	Recipe   string            `json:"recipe" yaml:"recipe"`
	Slug     string            `json:"slug" yaml:"slug"`
	Quantity float64           `json:"quantity" yaml:"quantity"`
	Items    []consumptionLine `json:"items" yaml:"items"`
}

func flattenCmd() *cli.Command {
	return &cli.Command{
		Name:                  "flatten",
		EnableShellCompletion: true,
		Usage:                 "Flatten a recipe into raw inventory consumption",
		Description: `Recursively expand a recipe through all its sub-recipes and aggregate the
raw inventory quantities needed to produce the requested number of output
units. The same item reached through different sub-recipe paths is summed.

# Examples

  mise flatten --catalog kitchen.yaml --recipe pizza-base --quantity 3
  mise flatten -f kitchen.yaml -r pizza-base -q 12 --format table`,
		Flags: []cli.Flag{
			catalogFlag,
			&cli.StringFlag{
				Name:     "recipe",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "Recipe id or slug to flatten",
			},
			&cli.FloatFlag{
				Name:    "quantity",
				Aliases: []string{"q"},
				Value:   1,
				Usage:   "Number of output units to produce",
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

			quantity := cmd.Float("quantity")
			consumption, err := engine.New(st).FlattenConsumption(ctx, rec.ID, quantity)
			if err != nil {
				return fmt.Errorf("failed to flatten %q: %w", rec.Slug, err)
			}

			items := make([]consumptionLine, 0, len(consumption))
			for id, qty := range consumption {
				line := consumptionLine{ItemID: id, Quantity: qty}
				if item, err := st.GetItem(ctx, id); err == nil {
					line.Name = item.Name
					line.Unit = item.Unit
				}
				items = append(items, line)
			}
			sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })

			return out.Serialize(ctx, flattenReport{
				Recipe:   rec.Name,
				Slug:     rec.Slug,
				Quantity: quantity,
				Items:    items,
			})
		},
	}
}
