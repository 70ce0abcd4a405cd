package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanehiroyuu/hero-tour/internal/domain/entities"
	"github.com/kanehiroyuu/hero-tour/internal/usecase"
)

// messagePrefix matches the tutorial's message panel
const messagePrefix = "HeroService: "

// HeroService is the client surface the commands drive
type HeroService interface {
	ListHeroes(ctx context.Context) usecase.Result[[]entities.Hero]
	GetHero(ctx context.Context, id int) usecase.Result[*entities.Hero]
	UpdateHero(ctx context.Context, hero entities.Hero) usecase.Result[*entities.Hero]
	AddHero(ctx context.Context, hero entities.Hero) usecase.Result[*entities.Hero]
	DeleteHero(ctx context.Context, id int) usecase.Result[*entities.Hero]
	SearchHeroes(ctx context.Context, term string) usecase.Result[[]entities.Hero]
}

var _ HeroService = (*usecase.HeroService)(nil)

// MessageHistory reads back messages persisted by an earlier run
type MessageHistory interface {
	Messages(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// Services holds everything a command needs
type Services struct {
	Heroes HeroService
	// Messages returns the messages collected during this run
	Messages func() []string
	// History is nil unless messages are persisted
	History MessageHistory
	Close   func()
}

var (
	cfgFile string
	strict  bool

	services *Services
	version  = "dev"
)

var errStrict = errors.New("hero service call failed")

var rootCmd = &cobra.Command{
	Use:   "heroes",
	Short: "Tour of Heroes client",
	Long: `Calls the hero API through HeroService. Failed calls print the
fallback value plus the failure message; use --strict to exit non-zero.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadServices,
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the heroes client version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "exit with an error when the hero service call fails")
	rootCmd.AddCommand(versionCmd)

	// finalizers run even when RunE fails, so a failed call still flushes
	// its spans and metrics
	cobra.OnFinalize(closeServices)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version printed by the version command
func SetVersion(v string) {
	version = v
}

func closeServices() {
	if services != nil && services.Close != nil {
		services.Close()
	}
}

func loadServices(cmd *cobra.Command, args []string) error {
	if services != nil {
		return nil
	}
	svc, err := Bootstrap(cmd.Context(), cfgFile)
	if err != nil {
		return err
	}
	services = svc
	return nil
}

// printResult writes the JSON value and this run's messages. A failed
// call only turns into an error under --strict.
func printResult[T any](cmd *cobra.Command, op string, res usecase.Result[T]) error {
	data, err := json.MarshalIndent(res.Value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	if services.Messages != nil {
		for _, msg := range services.Messages() {
			fmt.Fprintln(cmd.OutOrStdout(), messagePrefix+msg)
		}
	}

	if strict && res.Err != nil {
		return fmt.Errorf("%s: %w: %w", op, errStrict, res.Err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
