package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	cmd.AddCommand(newAdminDumpCmd())

	return cmd
}

func newAdminDumpCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Delete every world and its storage namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe all worlds without --yes")
			}
			return withDeps(func(d *Deps) error {
				dropped, err := d.Admin.DropAllTenants(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Dropped %d worlds.\n", dropped)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the wipe")

	return cmd
}
