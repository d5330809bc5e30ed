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

package app

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tokenledger/go-tokenledger/log"
	"github.com/tokenledger/go-tokenledger/node"
)

var rootCmd = &cobra.Command{
	Use:   "tokenledger",
	Short: "tokenledger manages a local token ledger with notify semantics",
	Long: `tokenledger manages a token ledger stored in a local database. Balance
moving and allowance setting operations follow the transfer/approve-then-notify
protocol when the counterparty is a registered contract.`,
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path of the config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openNode reads the config file and assembles the ledger node.
func openNode() *node.Node {
	if cfgFile == "" {
		log.Fatal(errors.New("config file not provided"))
	}
	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
	c, err := node.NewConfig(v)
	if err != nil {
		log.Fatal(err)
	}
	n, err := node.New(c)
	if err != nil {
		log.Fatal(err)
	}
	return n
}
