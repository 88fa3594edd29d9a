package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/TEENet-io/cardano-utxo/cmd"
)

func main() {
	root := cmd.NewRootCommand()
	if err := root.Execute(); err != nil {
		if errors.Is(err, cmd.ErrInsufficient) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
