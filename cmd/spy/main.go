// cmd/spy/main.go
package main

import (
	"os"

	"spy/internal/spycli"
)

func main() {
	os.Exit(spycli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
