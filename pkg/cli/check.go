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

// checkFinding is one recipe's cycle-check verdict.
type checkFinding struct {
	Recipe string `json:"recipe" yaml:"recipe"`
	Slug   string `json:"slug" yaml:"slug"`
	Cyclic bool   `json:"cyclic" yaml:"cyclic"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// checkReport is the check command's output payload.
type checkReport struct {
	Checked  int            `json:"checked" yaml:"checked"`
	Cyclic   int            `json:"cyclic" yaml:"cyclic"`
	Findings []checkFinding `json:"findings" yaml:"findings"`
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:                  "check",
		EnableShellCompletion: true,
		Usage:                 "Check the catalog for circular recipe references",
		Description: `Walk every recipe's sub-recipe references and report any that close a
cycle, including a recipe listing itself. Exits non-zero when a cycle or a
dangling reference is found.

# Examples

  mise check --catalog kitchen.yaml
  mise check -f kitchen.yaml --format table`,
		Flags: []cli.Flag{
			catalogFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutputWriter(cmd)
			if err != nil {
				return err
			}
			defer closeOutput(out)

			st, cat, err := loadCatalog(ctx, cmd.String("catalog"))
			if err != nil {
				return err
			}

			e := engine.New(st)
			report := checkReport{Findings: make([]checkFinding, 0, len(cat.Recipes))}
			broken := 0
			for i := range cat.Recipes {
				rec := &cat.Recipes[i]
				finding := checkFinding{Recipe: rec.Name, Slug: rec.Slug}

				cyclic, err := e.HasCycle(ctx, rec.ID, rec.SubRecipeIDs())
				switch {
				case err != nil:
					finding.Error = err.Error()
					broken++
				case cyclic:
					finding.Cyclic = true
					report.Cyclic++
				}

				report.Checked++
				report.Findings = append(report.Findings, finding)
			}

			if err := out.Serialize(ctx, report); err != nil {
				return err
			}
			if report.Cyclic > 0 || broken > 0 {
				return fmt.Errorf("catalog check failed: %d cyclic, %d broken of %d recipes",
					report.Cyclic, broken, report.Checked)
			}
			return nil
		},
	}
}
