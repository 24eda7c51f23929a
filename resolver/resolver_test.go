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

package resolver

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	t.Parallel()

	res := NewStaticResolver(map[string][]string{
		"foo.example.com": {"1.2.3.4:8080", "5.6.7.8:8080"},
	})

	addrs, err := res.ResolveOnce(context.Background(), "foo.example.com")
	require.NoError(t, err)
	assert.Equal(t, []Address{
		{HostPort: "1.2.3.4:8080"},
		{HostPort: "5.6.7.8:8080"},
	}, addrs)

	addrs, err = res.ResolveOnce(context.Background(), "bar.example.com")
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestStaticResolverCopiesResults(t *testing.T) {
	t.Parallel()

	res := NewStaticResolver(map[string][]string{
		"foo.example.com": {"1.2.3.4:8080", "5.6.7.8:8080"},
	})

	addrs, err := res.ResolveOnce(context.Background(), "foo.example.com")
	require.NoError(t, err)
	addrs[0] = Address{HostPort: "mutated"}

	addrs, err = res.ResolveOnce(context.Background(), "foo.example.com")
	require.NoError(t, err)
	assert.Equal(t, Address{HostPort: "1.2.3.4:8080"}, addrs[0])
}

func TestSRVAddresses(t *testing.T) {
	t.Parallel()

	records := []*net.SRV{
		{Target: "a.example.com.", Port: 8080},
		{Target: "b.example.com", Port: 8081},
		{Target: "::1", Port: 8082},
	}
	assert.Equal(t, []Address{
		{HostPort: "a.example.com:8080"},
		{HostPort: "b.example.com:8081"},
		{HostPort: "[::1]:8082"},
	}, srvAddresses(records))
	assert.Empty(t, srvAddresses(nil))
}
