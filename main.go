/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package main

import (
	"os"

	"github.com/RobertRaul/storefront-notify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
