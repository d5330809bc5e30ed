// Copyright 2026 The go-tokenledger Authors
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

package contract

import (
	"errors"
	"sync"

	"github.com/deckarep/golang-set"

	"github.com/tokenledger/go-tokenledger/crypto"
)

var (
	ErrInvalidAccountID  = errors.New("invalid contract account identity")
	ErrNilContract       = errors.New("contract is nil")
	ErrAlreadyRegistered = errors.New("contract already registered")
)

// Contract is executable logic attached to a ledger account. Handler
// interfaces the runtime knows how to invoke are asserted against the
// registered value at dispatch time, so any value can be registered.
type Contract interface{}

// Registry maps account identities to their executable contract and
// to the set of handler interfaces the contract type declares to
// implement. It is the single source for the code-presence check and
// for capability queries.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]Contract
	declared  map[string]mapset.Set
}

func NewRegistry() *Registry {
	return &Registry{
		contracts: make(map[string]Contract),
		declared:  make(map[string]mapset.Set),
	}
}

// Register attaches the contract to the account identity together
// with the interface identifiers its type declares to implement.
func (r *Registry) Register(accountID string, c Contract, declared ...InterfaceID) error {
	if !crypto.IsValidAccountID(accountID) || crypto.IsNullAccountID(accountID) {
		return ErrInvalidAccountID
	}
	if c == nil {
		return ErrNilContract
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contracts[accountID]; ok {
		return ErrAlreadyRegistered
	}

	ids := mapset.NewSet()
	for _, id := range declared {
		ids.Add(id)
	}
	r.contracts[accountID] = c
	r.declared[accountID] = ids

	return nil
}

// Lookup returns the contract registered for the identity.
func (r *Registry) Lookup(accountID string) (Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contracts[accountID]
	return c, ok
}

// HasCode reports whether the identity has executable logic attached.
// Plain holder accounts have none.
func (r *Registry) HasCode(accountID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.contracts[accountID]
	return ok
}

// Declares reports whether the contract registered for the identity
// declares the interface identifier.
func (r *Registry) Declares(accountID string, id InterfaceID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.declared[accountID]
	if !ok {
		return false
	}
	return ids.Contains(id)
}
