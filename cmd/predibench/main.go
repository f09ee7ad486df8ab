package main

import (
	"github.com/PresageLabs/PrediBench-sub000/internal/cli"
)

func main() {
	cli.Execute()
}
