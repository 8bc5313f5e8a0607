// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/client"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/client/session"
)

type app struct {
	serverURL string
	statePath string

	store  *session.SQLiteStore
	client *client.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Command-line client for the admin dashboard API",
		Long: `dashctl signs in to the admin dashboard API and keeps the session
in a local SQLite file so later commands reuse it until it expires
or the server rejects it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.store == nil {
				return nil
			}
			return a.store.Close()
		},
	}

	root.PersistentFlags().StringVar(
		&a.serverURL, "server", envOr("DASHCTL_SERVER", "http://localhost:5000"), "API base URL",
	)
	root.PersistentFlags().StringVar(
		&a.statePath, "state", envOr("DASHCTL_STATE", defaultStatePath()), "session state file",
	)

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		profileCmd(a),
		usersCmd(a),
	)

	return root
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if dir := filepath.Dir(a.statePath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	store, err := session.OpenSQLite(ctx, a.statePath)
	if err != nil {
		return err
	}

	cache := session.NewCache(store)
	if err := cache.Load(ctx); err != nil {
		_ = store.Close() //nolint:errcheck // cleanup on load failure
		return err
	}

	a.store = store
	a.client = client.New(a.serverURL, cache)
	return nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dashctl.db"
	}
	return filepath.Join(dir, "dashctl", "session.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
