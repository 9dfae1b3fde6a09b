package main

import (
	"fmt"
	"os"

	"storefront/cli"
	"storefront/domain"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		os.Exit(1)
	}
}
