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

// Package resolver provides the capability used to turn a logical service
// name into concrete network addresses. The core abstraction is [Resolver],
// which performs a single-shot lookup for one name. The namelb package
// invokes a Resolver at most once per name per cache generation; callers
// that need periodic re-resolution can layer that inside their Resolver
// implementation.
//
// Two implementations are provided: [NewDNSSRVResolver], which answers
// lookups from DNS SRV records, and [NewStaticResolver], which answers
// from a fixed table and is mainly useful for tests and small static
// fleets. Any service registry can be adapted by implementing the one
// method of the Resolver interface.
package resolver
