package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenledger/go-tokenledger/log"
)

var balanceAccount string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Query the balance of an account",
	Run: func(cmd *cobra.Command, args []string) {
		n := openNode()
		defer n.Close()

		balance, err := n.TM.BalanceOf(balanceAccount)
		if err != nil {
			log.Fatalf("query balance failed: %v", err)
		}
		fmt.Printf("%s: %d %s\n", balanceAccount, balance, n.TM.Symbol())
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAccount, "account", "", "account to query")
	balanceCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(balanceCmd)
}
