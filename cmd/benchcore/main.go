package main

import (
	"github.com/querylab/benchcore/internal/cli"
)

func main() {
	cli.Execute()
}
