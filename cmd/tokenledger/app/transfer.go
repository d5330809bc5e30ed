package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenledger/go-tokenledger/log"
)

var (
	transferFrom   string
	transferTo     string
	transferAmount uint64
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer tokens between two accounts",
	Long: `Transfer the amount from one account to another. Contracts are registered
in-process only, so targets of this command never carry executable
code and the plain transfer path applies.`,
	Run: func(cmd *cobra.Command, args []string) {
		n := openNode()
		defer n.Close()

		if err := n.TM.Transfer(transferFrom, transferTo, transferAmount); err != nil {
			log.Fatalf("transfer failed: %v", err)
		}
		balance, err := n.TM.BalanceOf(transferFrom)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("transferred %d from %s to %s, remaining balance %d\n",
			transferAmount, transferFrom, transferTo, balance)
	},
}

func init() {
	transferCmd.Flags().StringVar(&transferFrom, "from", "", "account to debit")
	transferCmd.Flags().StringVar(&transferTo, "to", "", "account to credit")
	transferCmd.Flags().Uint64Var(&transferAmount, "amount", 0, "amount to transfer")
	transferCmd.MarkFlagRequired("from")
	transferCmd.MarkFlagRequired("to")
	transferCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(transferCmd)
}
