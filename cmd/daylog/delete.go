package main

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete a whole entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var deleteActivityCmd = &cobra.Command{
	Use:   "delete-activity <entry-id> <activity>",
	Short: "Delete one occurrence of an activity from an entry",
	Long: `Removes the first occurrence of the activity from the entry. Deleting
the last remaining activity removes the entry itself.`,
	Args: cobra.ExactArgs(2),
	RunE: runDeleteActivity,
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	a.bootstrap(cmd.Context())
	a.store.DeleteEntry(args[0])
	a.store.Wait()
	printEntries(a.store.Entries())
	return nil
}

func runDeleteActivity(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	a.bootstrap(cmd.Context())
	a.store.DeleteActivity(args[0], args[1])
	a.store.Wait()
	printEntries(a.store.Entries())
	return nil
}
