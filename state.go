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

package namelb

import (
	"sync"

	"github.com/bufbuild/namelb/picker"
	"github.com/bufbuild/namelb/resolver"
)

// endpointState is the mutable record for one resolved name: the live
// address set, in resolver order, and the picker that rotates over it.
// The picker is recreated whenever the set changes, operating on its own
// snapshot, so Pick never races with list mutation.
type endpointState struct {
	name string

	mu sync.Mutex
	// +checklocks:mu
	addrs []resolver.Address
	// +checklocks:mu
	picker picker.Picker

	newPicker picker.Factory
}

func newEndpointState(name string, addrs []resolver.Address, factory picker.Factory) *endpointState {
	state := &endpointState{
		name:      name,
		addrs:     addrs,
		newPicker: factory,
	}
	state.picker = factory.New(nil, snapshotAddrs(addrs))
	return state
}

// pick returns the next address per the selection policy. It reports false
// if the set has been emptied by failure reports, in which case the caller
// must re-resolve the name.
func (s *endpointState) pick() (resolver.Address, bool) {
	s.mu.Lock()
	current := s.picker
	s.mu.Unlock()
	if current == nil {
		return resolver.Address{}, false
	}
	return current.Pick(), true
}

// remove deletes the first occurrence of addr from the set and reports
// whether the set is now empty. Removing an address that is not present is
// a no-op, so duplicate or stale failure reports are harmless.
func (s *endpointState) remove(addr resolver.Address) (wasLast bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.addrs {
		if s.addrs[i] != addr {
			continue
		}
		s.addrs = append(s.addrs[:i], s.addrs[i+1:]...)
		if len(s.addrs) == 0 {
			s.picker = nil
			return true
		}
		s.picker = s.newPicker.New(s.picker, snapshotAddrs(s.addrs))
		return false
	}
	return false
}

// endpoints returns a snapshot of the current address set.
func (s *endpointState) endpoints() []resolver.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotAddrs(s.addrs)
}

func snapshotAddrs(addrs []resolver.Address) []resolver.Address {
	clone := make([]resolver.Address, len(addrs))
	copy(clone, addrs)
	return clone
}
