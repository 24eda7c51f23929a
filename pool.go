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
	"sync"
	"time"

	"github.com/bufbuild/namelb/internal"
	"github.com/bufbuild/namelb/picker"
	"github.com/bufbuild/namelb/resolver"
	"golang.org/x/sync/errgroup"
)

// PoolOption is an option used to customize the behavior of a Pool.
type PoolOption interface {
	apply(*poolOptions)
}

// WithRootContext configures the root context used for the backend lookups
// that a pool starts. If not specified, [context.Background] is used.
//
// Lookups are not run on the contexts of the Acquire calls that trigger
// them, since a lookup may be shared by many callers. The root context
// should only be cancelled after the pool is no longer in use, and may be
// used to eagerly free any associated resources.
func WithRootContext(ctx context.Context) PoolOption {
	return poolOptionFunc(func(opts *poolOptions) {
		opts.rootCtx = ctx
	})
}

// WithPicker configures the load balancing policy used to select an
// address for a request. If no WithPicker option is provided,
// [picker.RoundRobinFactory] is used.
func WithPicker(factory picker.Factory) PoolOption {
	return poolOptionFunc(func(opts *poolOptions) {
		opts.pickerFactory = factory
	})
}

// WithResolveTimeout limits how long a single Acquire call waits for name
// resolution to complete. The lookup itself is not cancelled when a waiter
// times out; other callers may still observe its result. If zero or no
// WithResolveTimeout option is used, Acquire waits until the lookup
// completes or its context is done.
func WithResolveTimeout(duration time.Duration) PoolOption {
	return poolOptionFunc(func(opts *poolOptions) {
		opts.resolveTimeout = duration
	})
}

// Pool resolves logical names to addresses and balances requests across
// them. It caches resolved sets, shrinks them as callers report failed
// addresses, and re-resolves a name once its set has been exhausted.
//
// Pools are safe for concurrent use.
type Pool struct {
	res            resolver.Resolver
	newPicker      picker.Factory
	resolveTimeout time.Duration
	clock          internal.Clock

	//nolint:containedctx
	ctx     context.Context
	cancel  context.CancelFunc
	lookups sync.WaitGroup

	mu sync.Mutex
	// +checklocks:mu
	entries map[string]*resolution
	// +checklocks:mu
	closed bool
}

// New returns a new Pool that resolves names with the given resolver and
// uses the given options.
func New(res resolver.Resolver, options ...PoolOption) *Pool {
	var opts poolOptions
	for _, opt := range options {
		opt.apply(&opts)
	}
	opts.applyDefaults()
	ctx, cancel := context.WithCancel(opts.rootCtx)
	return &Pool{
		res:            res,
		newPicker:      opts.pickerFactory,
		resolveTimeout: opts.resolveTimeout,
		clock:          internal.NewRealClock(),
		ctx:            ctx,
		cancel:         cancel,
		entries:        map[string]*resolution{},
	}
}

// Acquire resolves name, waiting for the lookup if one is in flight, and
// returns the next address per the pool's selection policy. The first
// Acquire for a name triggers exactly one backend lookup no matter how
// many callers are waiting on it. If the lookup fails or yields no
// addresses, the error is returned to every waiting caller and the next
// Acquire for the name resolves again.
func (p *Pool) Acquire(ctx context.Context, name string) (resolver.Address, error) {
	for {
		state, err := p.resolve(ctx, name)
		if err != nil {
			return resolver.Address{}, err
		}
		if addr, ok := state.pick(); ok {
			return addr, nil
		}
		// The set was drained by failure reports between resolve and
		// pick. The entry is already gone from the cache, so resolving
		// again starts fresh.
	}
}

// Release reports the outcome of using an address obtained from Acquire.
// On success it is a no-op. On failure the address is removed from the
// name's cached set; removing the last address evicts the whole entry so
// that the next Acquire resolves from scratch. Reports for addresses or
// names that are no longer cached are silently ignored, so duplicate and
// late reports are safe.
func (p *Pool) Release(name string, addr resolver.Address, succeeded bool) {
	if succeeded {
		return
	}
	p.reportFailure(name, addr)
}

// Endpoints returns a snapshot of the addresses currently cached for name,
// or nil if the name is not resolved.
func (p *Pool) Endpoints(name string) []resolver.Address {
	p.mu.Lock()
	res, ok := p.entries[name]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-res.done:
	default:
		return nil
	}
	if res.err != nil {
		// The entry was sampled just before a failed lookup evicted it.
		return nil
	}
	return res.state.endpoints()
}

// Prewarm eagerly resolves the given names so that later Acquire calls
// find them cached. Lookups run concurrently; the first error observed is
// returned, but every lookup runs to completion either way.
func (p *Pool) Prewarm(ctx context.Context, names ...string) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		group.Go(func() error {
			_, err := p.resolve(ctx, name)
			return err
		})
	}
	return group.Wait()
}

// Close shuts the pool down: subsequent Acquire calls fail with
// ErrPoolClosed, in-flight lookups are cancelled, and Close waits for them
// to finish before returning. Callers already waiting on a cancelled
// lookup receive its error.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	p.lookups.Wait()
	return nil
}

type poolOptionFunc func(*poolOptions)

func (f poolOptionFunc) apply(opts *poolOptions) {
	f(opts)
}

type poolOptions struct {
	rootCtx        context.Context //nolint:containedctx
	pickerFactory  picker.Factory
	resolveTimeout time.Duration
}

func (opts *poolOptions) applyDefaults() {
	if opts.rootCtx == nil {
		opts.rootCtx = context.Background()
	}
	if opts.pickerFactory == nil {
		opts.pickerFactory = picker.RoundRobinFactory
	}
}
