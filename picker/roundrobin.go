// Copyright 2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package picker

import (
	"sync/atomic"

	"github.com/bufbuild/namelb/resolver"
)

//nolint:gochecknoglobals
var (
	// RoundRobinFactory creates pickers that pick addresses in a
	// "round-robin" fashion, that is to say, in sequential order. The
	// rotation follows the order in which the resolver returned the
	// addresses, starting from the first, so the sequence of picks is
	// deterministic for a given resolved set.
	RoundRobinFactory Factory = roundRobinFactory{}
)

type roundRobinFactory struct{}

type roundRobin struct {
	addrs []resolver.Address
	// +checkatomic
	counter atomic.Int64
}

func (roundRobinFactory) New(_ Picker, addrs []resolver.Address) Picker {
	picker := &roundRobin{addrs: addrs}
	picker.counter.Store(-1)
	return picker
}

func (r *roundRobin) Pick() resolver.Address {
	return r.addrs[uint64(r.counter.Add(1))%uint64(len(r.addrs))]
}
