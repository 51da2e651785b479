// Package commands implements propctl, a terminal client for the firm
// catalog: list and filter firms, show one firm, print the statistics and
// compare up to four firms side by side.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/PropCompare/internal/catalog"
	"github.com/JonMunkholm/PropCompare/internal/logging"
)

// app is the state shared by every subcommand.
type app struct {
	catalogURL string
	timeout    time.Duration
	logLevel   string
	asJSON     bool

	client *catalog.Client
}

// Execute runs propctl with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "propctl",
		Short:         "Browse and compare prop trading firms from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is normal outside development.
			_ = godotenv.Load()

			slog.SetDefault(logging.New(cmd.ErrOrStderr(), a.logLevel, "text"))

			if a.catalogURL == "" {
				a.catalogURL = os.Getenv("CATALOG_BASE_URL")
			}
			if a.catalogURL == "" {
				a.catalogURL = os.Getenv("BACKEND_URL")
			}
			if a.catalogURL == "" {
				return fmt.Errorf("no catalog URL: pass --catalog or set CATALOG_BASE_URL")
			}

			client, err := catalog.New(a.catalogURL, catalog.Options{Timeout: a.timeout})
			if err != nil {
				return err
			}
			a.client = client
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.catalogURL, "catalog", "", "catalog service base URL (default $CATALOG_BASE_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "per-request timeout")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(firmsCmd(a), firmCmd(a), statsCmd(a), compareCmd(a))
	return root
}

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
