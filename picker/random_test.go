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
	"testing"

	. "github.com/bufbuild/namelb/picker"
	"github.com/bufbuild/namelb/resolver"
	"github.com/stretchr/testify/assert"
)

func TestRandomPicker(t *testing.T) {
	t.Parallel()

	addrs := []resolver.Address{
		{HostPort: "a:1"},
		{HostPort: "b:2"},
		{HostPort: "c:3"},
	}
	valid := map[resolver.Address]struct{}{}
	for _, addr := range addrs {
		valid[addr] = struct{}{}
	}

	picker := RandomFactory.New(nil, addrs)
	for i := 0; i < 100; i++ {
		assert.Contains(t, valid, picker.Pick())
	}
}

func TestRandomPickerSingleAddress(t *testing.T) {
	t.Parallel()

	addr := resolver.Address{HostPort: "a:1"}
	picker := RandomFactory.New(nil, []resolver.Address{addr})
	assert.Equal(t, addr, picker.Pick())
}
