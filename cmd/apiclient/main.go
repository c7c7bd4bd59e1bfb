package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "apiclient: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	c := &cli{}
	defer c.close()
	return c.rootCommand().ExecuteContext(context.Background())
}
