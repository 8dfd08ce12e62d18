package main

import (
	"context"
	"os"

	"github.com/learnconnect/learnconnect.go/internal/cli"
)

func main() {
	if err := cli.Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
