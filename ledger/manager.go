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

package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru"

	"github.com/tokenledger/go-tokenledger/db"
	"github.com/tokenledger/go-tokenledger/log"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("account balance overflow")
	ErrSupplyInitialized   = errors.New("total supply already initialized")
)

const (
	accountBucket   = "ACCOUNT"
	allowanceBucket = "ALLOWANCE"
	eventBucket     = "EVENT"
	stateBucket     = "STATE"

	supplyKey   = "supply"
	eventSeqKey = "eventseq"
)

// TokenInfo holds the static metadata of the token tracked
// by the ledger.
type TokenInfo struct {
	Name     string
	Symbol   string
	Decimals int
}

// Account stores the balance state of one account identity. An
// identity without a stored record holds a zero balance.
type Account struct {
	AccountID string `json:"account_id"`
	Balance   uint64 `json:"balance"`
}

// Allowance stores the amount the spender is still allowed to move
// out of the owner account.
type Allowance struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  uint64 `json:"amount"`
}

// Manager owns the balance, allowance and total supply state of the
// ledger and exposes the primitive mutations the transaction
// coordinator composes into atomic operations.
type Manager struct {
	database db.Database

	info TokenInfo

	// LRU cache for accounts.
	accounts *lru.Cache
}

func NewManager(d db.Database, info TokenInfo) *Manager {
	m := &Manager{
		database: d,
		info:     info,
	}
	for _, bucket := range []string{accountBucket, allowanceBucket, eventBucket, stateBucket} {
		if err := m.database.NewBucket(bucket); err != nil {
			log.Fatalf("create db bucket %s failed: %v", bucket, err)
		}
	}
	cache, err := lru.New(10000)
	if err != nil {
		log.Fatalf("create account LRU cache failed: %v", err)
	}
	m.accounts = cache
	return m
}

// Info returns the static token metadata.
func (m *Manager) Info() TokenInfo {
	return m.info
}

// GetAccount loads the account state of the identity, an identity
// with no stored record yields a zero-balance account.
func (m *Manager) GetAccount(getter db.Getter, accountID string) (*Account, error) {
	if acc, ok := m.accounts.Get(accountID); ok {
		a := *acc.(*Account)
		return &a, nil
	}

	b, err := getter.Get(accountBucket, []byte(accountID))
	if err != nil {
		return nil, fmt.Errorf("get account %s failed: %v", accountID, err)
	}
	if b == nil {
		return &Account{AccountID: accountID}, nil
	}

	var acc Account
	if err := json.Unmarshal(b, &acc); err != nil {
		return nil, fmt.Errorf("decode account %s failed: %v", accountID, err)
	}

	cp := acc
	m.accounts.Add(accountID, &cp)

	return &acc, nil
}

// Balance returns the current balance of the identity.
func (m *Manager) Balance(getter db.Getter, accountID string) (uint64, error) {
	acc, err := m.GetAccount(getter, accountID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// Credit adds the amount to the account balance.
func (m *Manager) Credit(dt db.Tx, accountID string, amount uint64) error {
	acc, err := m.GetAccount(dt, accountID)
	if err != nil {
		return err
	}
	if acc.Balance > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	acc.Balance += amount

	return m.saveAccount(dt, acc)
}

// Debit subtracts the amount from the account balance, the balance
// is checked before anything is written so a failed debit never
// mutates state.
func (m *Manager) Debit(dt db.Tx, accountID string, amount uint64) error {
	acc, err := m.GetAccount(dt, accountID)
	if err != nil {
		return err
	}
	if acc.Balance < amount {
		return ErrInsufficientBalance
	}

	if acc.Balance == amount {
		// Drop the record instead of storing an empty account.
		m.accounts.Remove(accountID)
		if err := dt.Delete(accountBucket, []byte(accountID)); err != nil {
			return fmt.Errorf("delete account %s failed: %v", accountID, err)
		}
		return nil
	}

	acc.Balance -= amount

	return m.saveAccount(dt, acc)
}

func (m *Manager) saveAccount(putter db.Putter, acc *Account) error {
	b, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode account failed: %v", err)
	}
	if err := putter.Put(accountBucket, []byte(acc.AccountID), b); err != nil {
		return fmt.Errorf("save account in db failed: %v", err)
	}

	cp := *acc
	m.accounts.Add(acc.AccountID, &cp)

	return nil
}

// GetAllowance returns the amount the spender may still move out of
// the owner account, zero when no allowance record exists.
func (m *Manager) GetAllowance(getter db.Getter, owner, spender string) (uint64, error) {
	b, err := getter.Get(allowanceBucket, allowanceKey(owner, spender))
	if err != nil {
		return 0, fmt.Errorf("get allowance failed: %v", err)
	}
	if b == nil {
		return 0, nil
	}
	var a Allowance
	if err := json.Unmarshal(b, &a); err != nil {
		return 0, fmt.Errorf("decode allowance failed: %v", err)
	}
	return a.Amount, nil
}

// SetAllowance overwrites the allowance of the (owner, spender) pair,
// a zero amount removes the record.
func (m *Manager) SetAllowance(dt db.Tx, owner, spender string, amount uint64) error {
	key := allowanceKey(owner, spender)
	if amount == 0 {
		if err := dt.Delete(allowanceBucket, key); err != nil {
			return fmt.Errorf("delete allowance failed: %v", err)
		}
		return nil
	}

	a := Allowance{Owner: owner, Spender: spender, Amount: amount}
	b, err := json.Marshal(&a)
	if err != nil {
		return fmt.Errorf("encode allowance failed: %v", err)
	}
	if err := dt.Put(allowanceBucket, key, b); err != nil {
		return fmt.Errorf("save allowance in db failed: %v", err)
	}
	return nil
}

// TotalSupply returns the fixed total amount of tokens in existence.
func (m *Manager) TotalSupply(getter db.Getter) (uint64, error) {
	b, err := getter.Get(stateBucket, []byte(supplyKey))
	if err != nil {
		return 0, fmt.Errorf("get total supply failed: %v", err)
	}
	if b == nil {
		return 0, nil
	}
	return binary.BigEndian.Uint64(b), nil
}

// InitSupply seeds the total supply into the genesis account, it can
// only succeed once for the lifetime of the ledger.
func (m *Manager) InitSupply(dt db.Tx, accountID string, supply uint64) error {
	b, err := dt.Get(stateBucket, []byte(supplyKey))
	if err != nil {
		return fmt.Errorf("get total supply failed: %v", err)
	}
	if b != nil {
		return ErrSupplyInitialized
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], supply)
	if err := dt.Put(stateBucket, []byte(supplyKey), buf[:]); err != nil {
		return fmt.Errorf("save total supply failed: %v", err)
	}

	if err := m.Credit(dt, accountID, supply); err != nil {
		return fmt.Errorf("credit genesis account failed: %v", err)
	}

	log.Infow("total supply initialized", "account", accountID, "supply", supply)
	return nil
}

// PurgeCache drops every cached account, it is invoked when a db
// transaction is rolled back so the cache cannot serve discarded state.
func (m *Manager) PurgeCache() {
	m.accounts.Purge()
}

func allowanceKey(owner, spender string) []byte {
	// base58 identities never contain '/'.
	return []byte(owner + "/" + spender)
}
