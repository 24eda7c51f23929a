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

package picker_test

import (
	"sync"
	"testing"

	. "github.com/bufbuild/namelb/picker"
	"github.com/bufbuild/namelb/resolver"
	"github.com/stretchr/testify/assert"
)

func TestRoundRobinPicker(t *testing.T) {
	t.Parallel()

	addrs := []resolver.Address{
		{HostPort: "a:1"},
		{HostPort: "b:2"},
		{HostPort: "c:3"},
	}
	picker := RoundRobinFactory.New(nil, addrs)

	var picks []resolver.Address
	for i := 0; i < 6; i++ {
		picks = append(picks, picker.Pick())
	}
	assert.Equal(t, []resolver.Address{
		{HostPort: "a:1"}, {HostPort: "b:2"}, {HostPort: "c:3"},
		{HostPort: "a:1"}, {HostPort: "b:2"}, {HostPort: "c:3"},
	}, picks)
}

func TestRoundRobinPickerConcurrent(t *testing.T) {
	t.Parallel()

	addrs := []resolver.Address{
		{HostPort: "a:1"},
		{HostPort: "b:2"},
		{HostPort: "c:3"},
	}
	picker := RoundRobinFactory.New(nil, addrs)

	const goroutines = 5
	const picksEach = 300
	results := make([][]resolver.Address, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < picksEach; j++ {
				results[i] = append(results[i], picker.Pick())
			}
		}()
	}
	wg.Wait()

	// The counter distributes the total number of picks exactly evenly
	// across the set, regardless of interleaving.
	counts := map[resolver.Address]int{}
	for _, picks := range results {
		for _, addr := range picks {
			counts[addr]++
		}
	}
	for _, addr := range addrs {
		assert.Equal(t, goroutines*picksEach/len(addrs), counts[addr], "address %s", addr.HostPort)
	}
}

func TestRoundRobinPickerSingleAddress(t *testing.T) {
	t.Parallel()

	addr := resolver.Address{HostPort: "a:1"}
	picker := RoundRobinFactory.New(nil, []resolver.Address{addr})
	for i := 0; i < 3; i++ {
		assert.Equal(t, addr, picker.Pick())
	}
}
