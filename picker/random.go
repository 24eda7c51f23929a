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
	"math/rand"

	"github.com/bufbuild/namelb/resolver"
)

//nolint:gochecknoglobals
var (
	// RandomFactory creates pickers that pick an address at random.
	RandomFactory Factory = factoryFunc(newRandom)
)

func newRandom(_ Picker, addrs []resolver.Address) Picker {
	return pickerFunc(func() resolver.Address {
		return addrs[rand.Intn(len(addrs))] //nolint:gosec // does not need to be cryptographically secure
	})
}
