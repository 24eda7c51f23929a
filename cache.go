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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bufbuild/namelb/resolver"
)

var (
	// ErrNoEndpoints is returned by Acquire when the resolver answered the
	// lookup but advertised no addresses for the name. The failed lookup is
	// not cached: a subsequent Acquire for the same name resolves again.
	ErrNoEndpoints = errors.New("resolver returned no addresses")

	// ErrPoolClosed is returned by Acquire and Prewarm after the pool has
	// been closed.
	ErrPoolClosed = errors.New("pool is closed")
)

// resolution is the shared handle for one generation of resolving a name.
// Every caller awaiting the same name blocks on the same done channel;
// state and err are written exactly once, before done is closed.
type resolution struct {
	name string
	done chan struct{}
	// +checklocksignore: written before done is closed, read after.
	state *endpointState
	// +checklocksignore: written before done is closed, read after.
	err error
}

// resolve returns the endpoint state for name, starting a backend lookup
// if and only if no live entry exists. Callers for a name whose lookup is
// in flight share the pending entry.
func (p *Pool) resolve(ctx context.Context, name string) (*endpointState, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	res, ok := p.entries[name]
	if !ok {
		res = &resolution{name: name, done: make(chan struct{})}
		p.entries[name] = res
		p.lookups.Add(1)
		go p.lookup(res)
	}
	p.mu.Unlock()
	return p.await(ctx, res)
}

// lookup performs the single backend call for one cache generation. It
// runs on the pool's root context so that a waiter abandoning its Acquire
// does not cancel a lookup shared with other callers.
func (p *Pool) lookup(res *resolution) {
	defer p.lookups.Done()
	addrs, err := p.res.ResolveOnce(p.ctx, res.name)
	if err == nil && len(addrs) == 0 {
		err = ErrNoEndpoints
	}
	if err != nil {
		res.err = fmt.Errorf("resolve %s: %w", res.name, err)
		// Evict before releasing the waiters: once done is closed, no
		// resolve call may observe the failed entry and replay its error.
		p.evict(res)
		close(res.done)
		return
	}
	res.state = newEndpointState(res.name, snapshotAddrs(addrs), p.newPicker)
	close(res.done)
}

func (p *Pool) await(ctx context.Context, res *resolution) (*endpointState, error) {
	var timeout <-chan time.Time
	if p.resolveTimeout > 0 {
		timer := p.clock.NewTimer(p.resolveTimeout)
		defer timer.Stop()
		timeout = timer.Chan()
	}
	select {
	case <-res.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout:
		return nil, fmt.Errorf("resolve %s: %w", res.name, context.DeadlineExceeded)
	}
	if res.err != nil {
		return nil, res.err
	}
	return res.state, nil
}

// evict removes res from the cache if it is still the live generation for
// its name. Comparing by identity makes eviction idempotent and keeps a
// late eviction from dropping a newer entry for the same name.
func (p *Pool) evict(res *resolution) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.entries[res.name] == res {
		delete(p.entries, res.name)
	}
}

// reportFailure applies a failure report for addr against whichever state
// is presently live for name. Reports against unknown names, in-flight
// resolutions, or addresses no longer in the set are dropped. Emptying the
// set and removing the cache entry happen under the same lock, so a
// concurrent resolve either finds the live entry or no entry at all,
// never an empty one.
func (p *Pool) reportFailure(name string, addr resolver.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	res, ok := p.entries[name]
	if !ok {
		return
	}
	select {
	case <-res.done:
	default:
		// Still resolving; the report is for a previous generation.
		return
	}
	if res.state.remove(addr) {
		delete(p.entries, name)
	}
}
