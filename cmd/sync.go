package cmd

import (
	"context"
	"fmt"

	"modlist-manager/config"
	"modlist-manager/db"
	"modlist-manager/logger"
	"modlist-manager/nexus"
	"modlist-manager/tracked"
	"modlist-manager/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Syncs your Nexus Tracked Mods modlist with your Tracking Centre",
	Long: `Fetches the mods tracked on your Nexus account, downloads details of any
mod not known locally, and updates your "Nexus Tracked Mods" modlist to match.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger.Log.Info("Running sync command...")
		plain, _ := cmd.Flags().GetBool("plain")

		cfg, client := bootstrap(configDir)
		user := currentUser()
		if err := runSync(cmd.Context(), cfg, client, user, plain); err != nil {
			printError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Bool("plain", false, "print results without the interactive progress view")
}

// runSync reconciles the user's tracked modlist, with or without the TUI.
func runSync(ctx context.Context, cfg config.Config, client *nexus.Client, user *db.User, plain bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	engine := newEngine(cfg)
	run := func(progress chan<- tracked.Progress) (*tracked.Result, error) {
		return engine.Sync(ctx, user.ID, client, progress)
	}

	if plain {
		res, err := run(nil)
		printSyncResult(res, err)
		return nil
	}

	p := tea.NewProgram(initialSyncModel(run))
	final, err := p.Run()
	if err != nil {
		logger.Log.Errorw("Sync view failed", zap.Error(err))
		return err
	}
	if m, ok := final.(SyncModel); ok && !m.done {
		fmt.Println(ui.Warning("Sync interrupted."))
	}
	return nil
}

func printSyncResult(res *tracked.Result, err error) {
	if res != nil {
		for _, w := range res.Warnings {
			fmt.Println(ui.Warning("warning: " + w.String()))
		}
	}
	if err != nil {
		printError(err)
		return
	}
	printSuccess(summarize(res))
}
