package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenledger/go-tokenledger/log"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the ledger with the genesis allocation",
	Long: `Initialize the token ledger database and seed the total supply into the
genesis account specified in the config. It fails when the ledger
already holds a supply.`,
	Run: func(cmd *cobra.Command, args []string) {
		n := openNode()
		defer n.Close()

		if err := n.Bootstrap(); err != nil {
			log.Fatal(err)
		}
		supply, err := n.TM.TotalSupply()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("ledger initialized: %s (%s), total supply %d\n", n.TM.Name(), n.TM.Symbol(), supply)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
