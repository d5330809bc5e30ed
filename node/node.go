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

package node

import (
	"fmt"

	"github.com/tokenledger/go-tokenledger/contract"
	"github.com/tokenledger/go-tokenledger/db"
	"github.com/tokenledger/go-tokenledger/db/boltdb"
	"github.com/tokenledger/go-tokenledger/db/memdb"
	"github.com/tokenledger/go-tokenledger/ledger"
	"github.com/tokenledger/go-tokenledger/log"
	"github.com/tokenledger/go-tokenledger/token"
)

// Node assembles a token ledger engine from its collaborators: the
// database backend, the ledger state manager, the contract registry
// and the transaction coordinator.
type Node struct {
	config *Config

	database db.Database

	LM       *ledger.Manager
	Registry *contract.Registry
	TM       *token.Manager
}

// New opens the configured database backend and wires the managers
// on top of it.
func New(c *Config) (*Node, error) {
	database, err := openDatabase(c)
	if err != nil {
		return nil, err
	}

	lm := ledger.NewManager(database, ledger.TokenInfo{
		Name:     c.TokenName,
		Symbol:   c.TokenSymbol,
		Decimals: c.TokenDecimals,
	})
	registry := contract.NewRegistry()
	tm := token.NewManager(database, lm, registry)

	n := &Node{
		config:   c,
		database: database,
		LM:       lm,
		Registry: registry,
		TM:       tm,
	}

	log.Infow("token ledger node created",
		"db_backend", c.DBBackend,
		"db_path", c.DBPath,
		"token", c.TokenSymbol,
	)
	return n, nil
}

// Bootstrap seeds the genesis allocation from the config, it fails
// when the ledger already holds a supply.
func (n *Node) Bootstrap() error {
	if err := n.TM.InitSupply(n.config.GenesisAccount, n.config.GenesisSupply); err != nil {
		return fmt.Errorf("bootstrap genesis allocation failed: %v", err)
	}
	return nil
}

// Close releases the underlying database.
func (n *Node) Close() error {
	return n.database.Close()
}

func openDatabase(c *Config) (db.Database, error) {
	switch c.DBBackend {
	case "boltdb":
		return boltdb.Open(c.DBPath)
	case "memdb":
		return memdb.New(), nil
	}
	return nil, fmt.Errorf("db backend %s not supported", c.DBBackend)
}
