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
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
)

// mongosMsg is the "msg" value a mongos front-end reports in its hello reply.
const mongosMsg = "isdbgrid"

// helloReply is the subset of the server hello response the probe cares about.
type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// supportsTransactions reports whether the hello reply describes a topology
// capable of multi-document transactions: a replica set member or a mongos.
func (h helloReply) supportsTransactions() bool {
	return h.SetName != "" || h.Msg == mongosMsg
}

// SupportsTransactions implements store.TxRunner by asking the server who it
// is. A probe failure is reported as no transaction support, pushing the
// orchestrator onto the compensating path rather than failing the creation.
func (s *Store) SupportsTransactions(ctx context.Context) bool {
	var reply helloReply
	err := s.client.Database("admin").
		RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).
		Decode(&reply)
	if err != nil {
		slog.Warn("mongo topology probe failed, assuming no transaction support", "error", err)
		return false
	}

	supported := reply.supportsTransactions()
	slog.Debug("mongo topology probed",
		"setName", reply.SetName,
		"msg", reply.Msg,
		"transactions", supported,
	)
	return supported
}
