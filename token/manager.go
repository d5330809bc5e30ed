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

package token

import (
	"errors"
	"fmt"

	"github.com/tokenledger/go-tokenledger/contract"
	"github.com/tokenledger/go-tokenledger/crypto"
	"github.com/tokenledger/go-tokenledger/db"
	"github.com/tokenledger/go-tokenledger/ledger"
	"github.com/tokenledger/go-tokenledger/log"
	"github.com/tokenledger/go-tokenledger/notify"
)

var (
	// ErrInvalidAccount means the operating account identity is
	// malformed or reserved.
	ErrInvalidAccount = errors.New("invalid account identity")
	// ErrInvalidTarget means the recipient or spender is malformed
	// or the reserved null identity.
	ErrInvalidTarget = errors.New("invalid target account")
	// ErrInsufficientBalance is raised before any mutation when the
	// debited account cannot cover the amount.
	ErrInsufficientBalance = ledger.ErrInsufficientBalance
	// ErrInsufficientAllowance is raised before any mutation when the
	// spender allowance cannot cover the amount.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrCallbackRejected means the counterparty notification did not
	// validate and the operation was rolled back.
	ErrCallbackRejected = errors.New("notification callback rejected")
)

// Manager is the transaction coordinator of the token ledger. Every
// public operation runs as one indivisible unit: the ledger mutation
// is applied first, the counterparty notification is dispatched
// afterwards, and a rejected notification unwinds the mutation before
// the failure surfaces to the caller.
//
// The execution model is synchronous call/return with reentrant
// nesting: a notification handler may invoke further operations on
// the same manager during the callback window and those nested
// operations share the outer database transaction. The manager is
// therefore not safe for concurrent use from multiple goroutines.
type Manager struct {
	database db.Database

	lm         *ledger.Manager
	registry   *contract.Registry
	prober     *contract.Prober
	dispatcher *notify.Dispatcher

	// current db transaction and depth of the operation stack
	cur   db.Tx
	depth int
	// damaged is set when an exact-inverse revert could not be
	// applied, the whole transaction is discarded at the top level.
	damaged bool
}

func NewManager(d db.Database, lm *ledger.Manager, registry *contract.Registry) *Manager {
	return &Manager{
		database:   d,
		lm:         lm,
		registry:   registry,
		prober:     contract.NewProber(registry),
		dispatcher: notify.NewDispatcher(registry),
	}
}

// Registry returns the contract registry the coordinator dispatches
// against.
func (m *Manager) Registry() *contract.Registry {
	return m.registry
}

// Prober returns the capability prober of the coordinator.
func (m *Manager) Prober() *contract.Prober {
	return m.prober
}

// SupportsProtocol reports whether this ledger implements the notify
// protocol identified by the supplied identifier.
func (m *Manager) SupportsProtocol(id contract.InterfaceID) bool {
	return id == contract.ProtocolID
}

// Name returns the token name.
func (m *Manager) Name() string {
	return m.lm.Info().Name
}

// Symbol returns the token ticker symbol.
func (m *Manager) Symbol() string {
	return m.lm.Info().Symbol
}

// Decimals returns the precision of token balances.
func (m *Manager) Decimals() int {
	return m.lm.Info().Decimals
}

// BalanceOf returns the balance of the account. During a callback
// window the read observes the already-updated state of the running
// operation.
func (m *Manager) BalanceOf(accountID string) (uint64, error) {
	return m.lm.Balance(m.getter(), accountID)
}

// Allowance returns the amount the spender may still move out of the
// owner account.
func (m *Manager) Allowance(owner, spender string) (uint64, error) {
	return m.lm.GetAllowance(m.getter(), owner, spender)
}

// TotalSupply returns the total amount of tokens in existence.
func (m *Manager) TotalSupply() (uint64, error) {
	return m.lm.TotalSupply(m.getter())
}

// Events returns the committed event log in sequence order.
func (m *Manager) Events() ([]*ledger.Event, error) {
	return m.lm.Events(m.getter())
}

// InitSupply seeds the total supply into the genesis account.
func (m *Manager) InitSupply(accountID string, supply uint64) error {
	if err := checkAccount(accountID); err != nil {
		return err
	}
	dt, top, err := m.begin()
	if err != nil {
		return err
	}
	return m.finish(top, m.lm.InitSupply(dt, accountID, supply))
}

// getter returns the read view of the current operation: the open
// transaction when one is running, the database otherwise.
func (m *Manager) getter() db.Getter {
	if m.depth > 0 {
		return m.cur
	}
	return m.database
}

// begin opens the database transaction of a top-level operation or
// joins the transaction already opened by an enclosing operation.
func (m *Manager) begin() (db.Tx, bool, error) {
	if m.depth > 0 {
		m.depth++
		return m.cur, false, nil
	}
	dt, err := m.database.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin db tx failed: %v", err)
	}
	m.cur = dt
	m.depth = 1
	return dt, true, nil
}

// finish closes one level of the operation stack. Nested operations
// only propagate their result, the top-level operation decides the
// fate of the shared transaction: protocol failures have already been
// compensated with exact-inverse writes and commit together with
// successes, everything else discards the transaction.
func (m *Manager) finish(top bool, opErr error) error {
	m.depth--
	if !top {
		return opErr
	}

	dt := m.cur
	m.cur = nil

	if m.damaged {
		// A compensating revert could not be applied, restoring the
		// pre-call state takes precedence over nested commits.
		m.damaged = false
		m.discard(dt)
		if opErr == nil {
			opErr = ErrCallbackRejected
		}
		return opErr
	}

	if opErr != nil && !isProtocolErr(opErr) {
		m.discard(dt)
		return opErr
	}

	if err := dt.Commit(); err != nil {
		m.lm.PurgeCache()
		return fmt.Errorf("commit db tx failed: %v", err)
	}
	return opErr
}

func (m *Manager) discard(dt db.Tx) {
	if err := dt.Rollback(); err != nil {
		log.Errorf("rollback db tx failed: %v", err)
	}
	// The account cache may hold state from the discarded transaction.
	m.lm.PurgeCache()
}

// isProtocolErr reports whether the error belongs to the protocol
// taxonomy, those operations fail cleanly with their compensations
// already written.
func isProtocolErr(err error) bool {
	return errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientAllowance) ||
		errors.Is(err, ErrCallbackRejected) ||
		errors.Is(err, ledger.ErrBalanceOverflow) ||
		errors.Is(err, ledger.ErrSupplyInitialized)
}

// move shifts the amount between two accounts, undoing the debit when
// the credit cannot be applied.
func (m *Manager) move(dt db.Tx, from, to string, amount uint64) error {
	if err := m.lm.Debit(dt, from, amount); err != nil {
		return err
	}
	if err := m.lm.Credit(dt, to, amount); err != nil {
		if cerr := m.lm.Credit(dt, from, amount); cerr != nil {
			return fmt.Errorf("restore debited balance failed: %v", cerr)
		}
		return err
	}
	return nil
}

func checkAccount(accountID string) error {
	if !crypto.IsValidAccountID(accountID) || crypto.IsNullAccountID(accountID) {
		return ErrInvalidAccount
	}
	return nil
}

func checkTarget(accountID string) error {
	if !crypto.IsValidAccountID(accountID) || crypto.IsNullAccountID(accountID) {
		return ErrInvalidTarget
	}
	return nil
}
