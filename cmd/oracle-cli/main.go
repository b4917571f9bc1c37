package main

import (
	"github.com/AlexxNica/dnssec-oracle/cmd/oracle-cli/cmd"
)

func main() {
	cmd.Execute()
}
