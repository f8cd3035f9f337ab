package main

import (
	"github.com/spf13/cobra"
)

var editTimeCmd = &cobra.Command{
	Use:   "edit-time <entry-id> <HH:MM>",
	Short: "Move an entry to a new wall-clock time on the same day",
	Args:  cobra.ExactArgs(2),
	RunE:  runEditTime,
}

func runEditTime(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	a.bootstrap(cmd.Context())
	a.store.EditTime(args[0], args[1])
	a.store.Wait()
	printEntries(a.store.Entries())
	return nil
}
