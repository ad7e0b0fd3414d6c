package main

import (
	"github.com/named-data/flatfw/cmd"
)

func main() {
	cmd.Execute()
}
