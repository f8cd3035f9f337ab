package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pretzelday/daylog/internal/device"
)

var logSubject string

var logCmd = &cobra.Command{
	Use:   "log [activity]...",
	Short: "Record one or more activities for a subject",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logSubject, "subject", "s", "", "Who performed the activities (defaults to the last subject used)")
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	subject := logSubject
	if subject == "" {
		subject = device.PreferredSubject(a.cfg.Client.StateDir)
	}
	if subject == "" {
		return fmt.Errorf("no subject given and none remembered; use --subject")
	}

	a.bootstrap(cmd.Context())
	a.store.Submit(subject, args)
	a.store.Wait()

	device.SavePreferredSubject(a.cfg.Client.StateDir, subject)
	printEntries(a.store.Entries())
	return nil
}
