package main

import (
	"github.com/tokenledger/go-tokenledger/cmd/tokenledger/app"
)

func main() {
	app.Execute()
}
