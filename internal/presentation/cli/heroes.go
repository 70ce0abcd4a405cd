package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every hero",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(cmd, "list", services.Heroes.ListHeroes(commandContext(cmd)))
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Fetch one hero by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseHeroID(args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, "get", services.Heroes.GetHero(commandContext(cmd), id))
	},
}

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a hero; the server assigns the id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return fmt.Errorf("hero name must not be blank")
		}
		return printResult(cmd, "add", services.Heroes.AddHero(commandContext(cmd), entities.Hero{Name: name}))
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [id] [name]",
	Short: "Rename an existing hero",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseHeroID(args[0])
		if err != nil {
			return err
		}
		hero := entities.Hero{ID: id, Name: strings.Join(args[1:], " ")}
		return printResult(cmd, "update", services.Heroes.UpdateHero(commandContext(cmd), hero))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a hero by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseHeroID(args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, "delete", services.Heroes.DeleteHero(commandContext(cmd), id))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Find heroes whose name contains term",
	Long: `Searches heroes by name. A blank term answers an empty list
without calling the hero API.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		return printResult(cmd, "search", services.Heroes.SearchHeroes(commandContext(cmd), term))
	},
}

func init() {
	rootCmd.AddCommand(listCmd, getCmd, addCmd, updateCmd, deleteCmd, searchCmd)
}

func parseHeroID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid hero id %q: %w", s, err)
	}
	return id, nil
}
