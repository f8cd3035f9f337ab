package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pretzelday/daylog/internal/logbook"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow today's log live",
	Long: `Keeps the collection subscribed to the syncd change feed, reprints it on
every local or remote mutation, and rolls over to a fresh log at midnight.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	render := func(entries []*logbook.Entry) {
		fmt.Print("\033[H\033[2J")
		printEntries(entries)
	}

	a, err := newApp(logbook.WithRenderer(render))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a.store.Start(ctx)
	go a.store.RunRollover(ctx, logbook.RolloverInterval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	a.store.Close()
	return nil
}
