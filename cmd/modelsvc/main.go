package main

import (
	"context"
	"os"

	_ "go.uber.org/automaxprocs"

	"modelsvc/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}
