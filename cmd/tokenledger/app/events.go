package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenledger/go-tokenledger/log"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the committed ledger events in sequence order",
	Run: func(cmd *cobra.Command, args []string) {
		n := openNode()
		defer n.Close()

		events, err := n.TM.Events()
		if err != nil {
			log.Fatalf("load events failed: %v", err)
		}
		for _, e := range events {
			fmt.Printf("%d %s operator=%s from=%s to=%s amount=%d\n",
				e.Seq, e.Kind, e.Operator, e.From, e.To, e.Amount)
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
