// Practice is a toolkit for keeping and aggregating daily practice logs.
package main

import (
	"github.com/benchantech/practice/internal/cli"
)

func main() {
	cli.Execute()
}
