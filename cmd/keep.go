package cmd

import (
	"fmt"

	"modlist-manager/db"
	"modlist-manager/tracked"
	"modlist-manager/ui"

	"github.com/spf13/cobra"
)

var keepCmd = &cobra.Command{
	Use:   "keep",
	Short: "Manages the mods you keep tracked",
}

var keepAddCmd = &cobra.Command{
	Use:   "add <mod-id>",
	Short: "Keeps a tracked mod",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runKeep(args[0], true)
	},
}

var keepRemoveCmd = &cobra.Command{
	Use:   "remove <mod-id>",
	Short: "Stops keeping a mod",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runKeep(args[0], false)
	},
}

var keepListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the mods you keep tracked",
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		user := currentUser()

		mods, err := tracked.KeptMods(db.DB, user.ID)
		if err != nil {
			printError(err)
			return
		}
		printModList(visibleMods(mods, user.HideNSFW), "Your Keep-Tracked list is empty.")
	},
}

var trackedCmd = &cobra.Command{
	Use:   "tracked",
	Short: "Lists the mods in your tracked modlist",
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		user := currentUser()

		mods, err := tracked.TrackedMods(db.DB, user.ID)
		if err != nil {
			printError(err)
			return
		}
		printModList(visibleMods(mods, user.HideNSFW), "No tracked mods. Run 'sync' to fetch them from Nexus.")
	},
}

func init() {
	rootCmd.AddCommand(keepCmd, trackedCmd)
	keepCmd.AddCommand(keepAddCmd, keepRemoveCmd, keepListCmd)
}

func runKeep(arg string, keep bool) {
	bootstrap(configDir)
	user := currentUser()
	modID, err := parseID(arg, "mod id")
	if err != nil {
		printError(err)
		return
	}

	if keep {
		mod, err := tracked.Keep(db.DB, user.ID, modID)
		if err != nil {
			printError(err)
			return
		}
		printSuccess(fmt.Sprintf("Success! '%s' has been added to your Keep-Tracked list.", mod.Name))
		return
	}

	mod, err := tracked.Unkeep(db.DB, user.ID, modID)
	if err != nil {
		printError(err)
		return
	}
	printSuccess(fmt.Sprintf("Success! '%s' has been removed from your Keep-Tracked list.", mod.Name))
}

func printModList(mods []db.Mod, empty string) {
	if len(mods) == 0 {
		fmt.Println(ui.Muted(empty))
		return
	}
	for _, m := range mods {
		fmt.Println(modLine(m))
	}
}
