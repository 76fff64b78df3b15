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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kitchenops/mise/pkg/logging"
	"github.com/kitchenops/mise/pkg/serializer"
)

const versionDefault = "v0.0.1-default"

var (
	// version is set at build time using ldflags:
	//   -X 'github.com/kitchenops/mise/pkg/cli.version=v1.2.3'
	version = versionDefault

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}

	catalogFlag = &cli.StringFlag{
		Name:     "catalog",
		Aliases:  []string{"f"},
		Required: true,
		Sources:  cli.EnvVars("MISE_CATALOG"),
		Usage:    "Path to the catalog file holding inventory items and recipes (YAML or JSON)",
	}
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  "mise",
		Usage:                 "Recipe cost and consumption resolution",
		Version:               version,
		EnableShellCompletion: true,
		Flags:                 []cli.Flag{logLevelFlag},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if level := cmd.String("log-level"); level != "" {
				logging.SetDefaultStructuredLoggerWithLevel("mise", version, level)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			costCmd(),
			flattenCmd(),
			checkCmd(),
			createCmd(),
		},
	}
}

// Run executes the mise CLI with the given arguments.
func Run(ctx context.Context, args []string) error {
	logging.SetDefaultStructuredLogger("mise", version)
	return rootCmd().Run(ctx, args)
}

// newOutputWriter builds the serializer for a command's --format/--output
// flags. The caller is responsible for passing the result to closeOutput.
func newOutputWriter(cmd *cli.Command) (serializer.Serializer, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return nil, fmt.Errorf("unknown output format: %q", outFormat)
	}
	return serializer.NewFileWriterOrStdout(outFormat, cmd.String("output")), nil
}

// closeOutput releases the output writer's file handle when it holds one.
func closeOutput(s serializer.Serializer) {
	if closer, ok := s.(serializer.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("failed to close output writer", "error", err)
		}
	}
}
