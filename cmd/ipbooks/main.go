// ipbooks reconciles the IP-docket database and law-firm invoice
// spreadsheets into the accounting system.
package main

import (
	"os"

	"github.com/turtacn/IPBooks-Bridge/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
