package main

import (
	"os"

	"github.com/teranos/faked/cmd/faked/commands"
)

func main() {
	os.Exit(commands.Execute())
}
