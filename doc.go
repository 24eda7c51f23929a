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

// Package namelb provides a lazy, caching layer between a network client
// and a name-resolution backend. It resolves a logical service name to a
// set of addresses exactly once, even under concurrent callers, caches the
// resolved set, rotates over it to balance load across hosts, and evicts
// the cached entry once every address has been reported failed, so the
// next request triggers a fresh resolution.
//
// To create a new pool use the [New] function, supplying the
// [resolver.Resolver] that performs the actual lookups. This function
// accepts options for using a custom [load balancing policy], for bounding
// how long a caller waits on resolution, and for controlling the lifetime
// of background lookups.
//
// The typical request cycle is:
//
//	addr, err := pool.Acquire(ctx, "foo.example.com")
//	if err != nil {
//	    return err
//	}
//	err = send(ctx, addr, payload)
//	pool.Release("foo.example.com", addr, err == nil)
//
// A failure report removes the address from the cached set; reporting the
// last remaining address removes the whole entry, and the next Acquire for
// that name resolves from scratch. Duplicate or late reports, including
// reports against a name that has since been re-resolved, are ignored.
//
// # Resolution semantics
//
// Resolution is single-flight per name: concurrent Acquire calls for a
// name that is not yet cached share one backend lookup, and all of them
// observe its outcome. A lookup that fails, or that returns no addresses,
// is not cached: its error is delivered to every caller that was already
// waiting, and the very next Acquire for that name starts a new lookup.
// There is no negative caching and no TTL; entries live until their
// address set is emptied by failure reports.
//
// This package does not establish connections, retry requests, or perform
// health checks. It only decides which address a request should go to,
// based on what the resolver reported and which addresses callers have
// reported dead.
//
// [load balancing policy]: https://pkg.go.dev/github.com/bufbuild/namelb/picker#Picker
package namelb
