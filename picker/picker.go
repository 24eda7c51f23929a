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
	"github.com/bufbuild/namelb/resolver"
)

// Picker implements address selection. For a given request, it returns the
// address to use. Pick must be safe for concurrent use, must complete in
// bounded time, and must not block on I/O. A Picker operates over the
// snapshot of addresses it was created with; it never observes later
// mutations of the resolved set.
type Picker interface {
	Pick() resolver.Address
}

// Factory creates pickers. A new picker is created every time the set of
// usable addresses for a name changes. The previous picker is supplied so
// that stateful policies may carry state over from the previous
// incarnation, if relevant. The given addrs slice is owned by the new
// picker and is never empty.
type Factory interface {
	New(prev Picker, addrs []resolver.Address) Picker
}

type pickerFunc func() resolver.Address

func (f pickerFunc) Pick() resolver.Address {
	return f()
}

type factoryFunc func(prev Picker, addrs []resolver.Address) Picker

func (f factoryFunc) New(prev Picker, addrs []resolver.Address) Picker {
	return f(prev, addrs)
}
