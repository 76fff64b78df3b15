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

import "testing"

func TestHelloReplySupportsTransactions(t *testing.T) {
	tests := []struct {
		name  string
		reply helloReply
		want  bool
	}{
		{
			name:  "replica set member",
			reply: helloReply{SetName: "rs0"},
			want:  true,
		},
		{
			name:  "mongos router",
			reply: helloReply{Msg: "isdbgrid"},
			want:  true,
		},
		{
			name:  "standalone",
			reply: helloReply{},
			want:  false,
		},
		{
			name:  "unexpected msg on standalone",
			reply: helloReply{Msg: "hello"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reply.supportsTransactions(); got != tt.want {
				t.Errorf("supportsTransactions() = %v, want %v", got, tt.want)
			}
		})
	}
}
