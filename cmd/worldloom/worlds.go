package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/worldloom/internal/infrastructure/config"
)

func newWorldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worlds",
		Short: "Manage worlds",
		RunE:  runWorldsList,
	}

	cmd.AddCommand(
		newWorldsListCmd(),
		newWorldsCreateCmd(),
		newWorldsFillCmd(),
		newWorldsDeleteCmd(),
	)

	return cmd
}

func newWorldsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all worlds",
		RunE:  runWorldsList,
	}
}

func runWorldsList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	registry, err := config.LoadRegistry(cwd)
	if err != nil {
		return fmt.Errorf("loading tenant registry: %w", err)
	}

	if len(registry.Tenants) == 0 {
		fmt.Println("No worlds yet.")
		fmt.Println("Use 'worldloom worlds create' to generate one.")
		return nil
	}

	fmt.Printf("%-36s %-25s %s\n", "ID", "NAME", "CREATOR")
	fmt.Printf("%-36s %-25s %s\n", "--", "----", "-------")
	for _, id := range registry.IDs() {
		entry := registry.Tenants[id]
		fmt.Printf("%-36s %-25s %s\n", id, entry.Name, entry.Creator)
	}

	return nil
}

func newWorldsCreateCmd() *cobra.Command {
	var creator string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a new world",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				world, err := d.Worlds.CreateWorld(cmd.Context(), creator)
				if err != nil {
					return err
				}
				fmt.Printf("Created world %q (%s)\n", world.Name, world.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&creator, "creator", "c", "cli", "Creator id recorded on the world")

	return cmd
}

func newWorldsFillCmd() *cobra.Command {
	var races, factions int

	cmd := &cobra.Command{
		Use:   "fill WORLD_ID",
		Short: "Generate races, factions and pacts for a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.Worlds.FillWorld(cmd.Context(), args[0], races, factions); err != nil {
					return err
				}
				fmt.Println("World filled.")
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&races, "races", 3, "Number of races to generate")
	cmd.Flags().IntVar(&factions, "factions", 4, "Number of factions to generate")

	return cmd
}

func newWorldsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete WORLD_ID",
		Short: "Delete a world and its storage namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete world %s without --yes", args[0])
			}
			return withDeps(func(d *Deps) error {
				if err := d.Admin.DropTenant(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted world %s.\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")

	return cmd
}
