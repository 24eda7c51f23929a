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
	"strconv"
	"strings"
)

// Address is a resolved network address for a host. Addresses are compared
// by value, so they can be used as map keys and in failure reports.
type Address struct {
	// HostPort stores the host:port pair of the resolved address.
	HostPort string
}

// Resolver is an interface for types that provide single-shot name
// resolution.
type Resolver interface {
	// ResolveOnce resolves the given logical name once, returning the
	// addresses currently advertised for it. The order of the returned
	// slice is preserved by callers that rotate over it, so resolvers
	// that care about rotation order should return addresses in that
	// order.
	//
	// Returning an empty slice with a nil error means the name exists
	// but currently has no addresses; callers treat that the same as a
	// lookup failure.
	ResolveOnce(ctx context.Context, name string) ([]Address, error)
}

// NewDNSSRVResolver creates a resolver that answers lookups from DNS SRV
// records, using the given net.Resolver. The service and proto parameters
// have the same meaning as in [net.Resolver.LookupSRV]: when both are
// empty, the logical name is looked up directly and must be of the form
// "_service._proto.name". Each record is mapped to a "target:port" address
// in the order returned by the DNS library, which sorts by priority and
// randomizes by weight within a priority.
func NewDNSSRVResolver(res *net.Resolver, service, proto string) Resolver {
	return &dnsSRVResolver{
		resolver: res,
		service:  service,
		proto:    proto,
	}
}

type dnsSRVResolver struct {
	resolver *net.Resolver
	service  string
	proto    string
}

func (r *dnsSRVResolver) ResolveOnce(ctx context.Context, name string) ([]Address, error) {
	_, records, err := r.resolver.LookupSRV(ctx, r.service, r.proto, name)
	if err != nil {
		return nil, err
	}
	return srvAddresses(records), nil
}

func srvAddresses(records []*net.SRV) []Address {
	result := make([]Address, len(records))
	for i, record := range records {
		host := strings.TrimSuffix(record.Target, ".")
		result[i] = Address{HostPort: net.JoinHostPort(host, strconv.Itoa(int(record.Port)))}
	}
	return result
}

// NewStaticResolver creates a resolver that answers lookups from a fixed
// table mapping logical names to "host:port" strings. The given table is
// copied. Lookups for names absent from the table resolve to an empty set.
func NewStaticResolver(targets map[string][]string) Resolver {
	table := make(map[string][]Address, len(targets))
	for name, hostPorts := range targets {
		addrs := make([]Address, len(hostPorts))
		for i, hostPort := range hostPorts {
			addrs[i] = Address{HostPort: hostPort}
		}
		table[name] = addrs
	}
	return staticResolver(table)
}

type staticResolver map[string][]Address

func (r staticResolver) ResolveOnce(_ context.Context, name string) ([]Address, error) {
	addrs := r[name]
	result := make([]Address, len(addrs))
	copy(result, addrs)
	return result, nil
}
