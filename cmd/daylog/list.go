package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pretzelday/daylog/internal/logbook"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show today's log",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	a.bootstrap(cmd.Context())
	printEntries(a.store.Entries())
	return nil
}

func printEntries(entries []*logbook.Entry) {
	if len(entries) == 0 {
		fmt.Println("No activities logged yet today.")
		return
	}
	nowMs := time.Now().UnixMilli()
	for _, e := range entries {
		fmt.Printf("%-9s %-10s %-24s %-12s %s\n",
			logbook.EnsureClock(e.DisplayTime),
			e.Subject,
			strings.Join(e.Activities, ", "),
			logbook.RelativeAge(e.TimestampMs, nowMs),
			e.ID,
		)
	}
}
