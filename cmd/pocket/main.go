package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MrJamesThe3rd/pocket/cmd/pocket/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(cli.Open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
