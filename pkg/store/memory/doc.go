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

// Package memory provides a map-backed store.Store implementation.
//
// It exists for two callers: tests, which need deterministic state plus
// failure injection (OnCreateVariant), and the CLI's file-catalog mode,
// which loads a YAML catalog into memory and runs engine operations against
// it. Transaction support is opt-in via Config so the orchestrator's
// transactional and compensating paths can both be exercised.
package memory
