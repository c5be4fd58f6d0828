package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPopulateCmd() *cobra.Command {
	var x, y int
	var seed int64

	cmd := &cobra.Command{
		Use:   "populate WORLD_ID",
		Short: "Generate and populate the locale at the given coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if seed == 0 {
					seed = time.Now().UnixNano()
				}

				res, err := d.Populate.PopulateLocale(cmd.Context(), args[0], x, y, seed)
				if err != nil {
					return err
				}
				if res.Existed {
					fmt.Printf("Locale %q already exists at (%d, %d)\n", res.Locale.Name, x, y)
					return nil
				}
				fmt.Printf("Populated %q at (%d, %d): %d characters\n",
					res.Locale.Name, x, y, len(res.Characters))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&x, "x", "x", 0, "X coordinate")
	cmd.Flags().IntVarP(&y, "y", "y", 0, "Y coordinate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for reproducible population (0 = time-based)")

	return cmd
}
