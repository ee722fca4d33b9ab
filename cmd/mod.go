package cmd

import (
	"fmt"
	"strings"

	"modlist-manager/db"
	"modlist-manager/ingest"
	"modlist-manager/logger"
	"modlist-manager/modlists"
	"modlist-manager/nexus"
	"modlist-manager/tracked"
	"modlist-manager/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Views and acts on a single Nexus mod",
}

var modShowCmd = &cobra.Command{
	Use:   "show <domain> <mod-id>",
	Short: "Fetches a mod from Nexus and stores it locally",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		_, client := bootstrap(configDir)
		modID, err := parseID(args[1], "mod id")
		if err != nil {
			printError(err)
			return
		}

		detail, err := client.GetMod(cmd.Context(), args[0], modID)
		if err != nil {
			printError(err)
			return
		}

		game, err := ingest.LoadGame(cmd.Context(), client, db.DB, args[0], logger.Named("ingest"))
		if err != nil {
			// The mod is still stored, just without a game.
			logger.Log.Warnw("Game lookup failed", zap.String("domain", args[0]), zap.Error(err))
			game = nil
		}
		mod, stored, err := ingest.StoreFetchedMod(db.DB, game, detail.ModRecord)
		if err != nil {
			logger.Log.Warnw("Failed to store mod", zap.Int("mod", modID), zap.Error(err))
		}

		printModDetail(detail, mod)
		if !stored && err == nil {
			fmt.Println(ui.Warning("This mod is not published on Nexus and was not saved."))
			return
		}

		if userFlag == "" {
			return
		}
		user := currentUser()
		if mod.IsNSFW && user.HideNSFW {
			fmt.Println(ui.Muted("This mod contains adult content."))
		}
		c, err := modlists.GetCandidates(db.DB, user.ID, mod.ID)
		if err != nil {
			printError(err)
			return
		}
		printCandidates(c)
	},
}

var modEndorseCmd = &cobra.Command{
	Use:   "endorse <domain> <mod-id>",
	Short: "Endorses a mod on Nexus",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runEndorse(cmd, args, nexus.Endorse)
	},
}

var modAbstainCmd = &cobra.Command{
	Use:   "abstain <domain> <mod-id>",
	Short: "Abstains from endorsing a mod on Nexus",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runEndorse(cmd, args, nexus.Abstain)
	},
}

var modTrackCmd = &cobra.Command{
	Use:   "track <domain> <mod-id>",
	Short: "Tracks a mod on Nexus and adds it to your tracked modlist",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTracking(cmd, args, nexus.Track)
	},
}

var modUntrackCmd = &cobra.Command{
	Use:   "untrack <domain> <mod-id>",
	Short: "Stops tracking a mod on Nexus",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTracking(cmd, args, nexus.Untrack)
	},
}

func init() {
	rootCmd.AddCommand(modCmd)
	modCmd.AddCommand(modShowCmd, modEndorseCmd, modAbstainCmd, modTrackCmd, modUntrackCmd)
}

func runEndorse(cmd *cobra.Command, args []string, action nexus.EndorseAction) {
	_, client := bootstrap(configDir)
	modID, err := parseID(args[1], "mod id")
	if err != nil {
		printError(err)
		return
	}

	// Nexus wants the current version alongside the endorsement.
	detail, err := client.GetMod(cmd.Context(), args[0], modID)
	if err != nil {
		printError(err)
		return
	}
	msg, err := tracked.Endorse(cmd.Context(), client, args[0], modID, detail.Version, action)
	if err != nil {
		printError(err)
		return
	}
	printSuccess(msg)
}

func runTracking(cmd *cobra.Command, args []string, action nexus.TrackAction) {
	_, client := bootstrap(configDir)
	user := currentUser()
	modID, err := parseID(args[1], "mod id")
	if err != nil {
		printError(err)
		return
	}

	if err := tracked.SetTracking(cmd.Context(), db.DB, client, user.ID, args[0], modID, action); err != nil {
		printError(err)
		return
	}
	if action == nexus.Untrack {
		printSuccess(fmt.Sprintf("Mod %d is no longer tracked.", modID))
		return
	}
	printSuccess(fmt.Sprintf("Mod %d is now tracked.", modID))
}

func printModDetail(detail *nexus.ModDetailRecord, mod db.Mod) {
	title := ui.Title(mod.Name)
	if mod.IsNSFW {
		title += " " + ui.NSFWBadge()
	}
	fmt.Println(title)
	fmt.Println(ui.Muted(fmt.Sprintf("by %s, version %s, updated %s", mod.UploadedBy, detail.Version, formatTimestamp(mod.UpdatedTimestamp))))
	if mod.Summary != "" {
		fmt.Println()
		fmt.Println(mod.Summary)
	}
	if detail.Endorsement != nil && detail.Endorsement.EndorseStatus != "" {
		fmt.Println(ui.Muted("Endorsement: " + strings.ToLower(detail.Endorsement.EndorseStatus)))
	}
}

func printCandidates(c *modlists.Candidates) {
	fmt.Println()
	if len(c.Containing) > 0 {
		fmt.Println(ui.Title("In your modlists"))
		for _, ml := range c.Containing {
			fmt.Println(modlistLine(ml))
		}
	}
	if len(c.Scoped)+len(c.Unassigned) == 0 {
		fmt.Println(ui.Muted("No other modlist can take this mod."))
		return
	}
	fmt.Println(ui.Title("Can be added to"))
	for _, ml := range c.Scoped {
		fmt.Println(modlistLine(ml))
	}
	for _, ml := range c.Unassigned {
		fmt.Println(modlistLine(ml) + ui.Muted(" (no game yet)"))
	}
}
