package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aryankumar/swarmwatch/internal/cli"
	"github.com/aryankumar/swarmwatch/internal/util"
)

func main() {
	ctx := util.SetupSignalHandler(context.Background())

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, util.FriendlyError(err))
		os.Exit(1)
	}
}
