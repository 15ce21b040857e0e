package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/lukehollenback/coinex/cli"
)

func main() {
	//
	// Register a kill signal handler with the operating system so that an in-flight request is
	// abandoned if we are interrupted.
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	//
	// Run the command. Failures have already been reported to the user by the time they get here.
	//
	err := cli.Execute(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
