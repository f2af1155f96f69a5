package main

import (
	"github.com/dyike/QuantFlow/internal/cli"
)

func main() {
	cli.Run()
}
