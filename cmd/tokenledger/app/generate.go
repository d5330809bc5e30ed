package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenledger/go-tokenledger/crypto"
	"github.com/tokenledger/go-tokenledger/log"
)

var genaccountidCmd = &cobra.Command{
	Use:   "genaccountid",
	Short: "Generate a random keypair for an account",
	Long: `Generate a random keypair for an account, the keypair contains the crypto
seed and the public key. The public key is the ID for the account.`,
	Run: func(cmd *cobra.Command, args []string) {
		pub, seed, err := crypto.GetAccountKeypair()
		if err != nil {
			log.Fatalf("generate random account ID failed: %v", err)
		}
		fmt.Printf("AccountID: %s, Seed: %s\n", pub, seed)
	},
}

func init() {
	rootCmd.AddCommand(genaccountidCmd)
}
