package cmd

import (
	"fmt"

	"modlist-manager/db"
	"modlist-manager/modlists"
	"modlist-manager/query"
	"modlist-manager/ui"

	"github.com/spf13/cobra"
)

var modlistCmd = &cobra.Command{
	Use:     "modlist",
	Aliases: []string{"ml"},
	Short:   "Manages your modlists",
}

var modlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Creates a modlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		user := currentUser()
		desc, private := descriptionFlags(cmd)

		ml, err := modlists.Create(db.DB, user.ID, args[0], desc, private)
		if err != nil {
			printError(err)
			return
		}
		printSuccess(fmt.Sprintf("Modlist '%s' created (id %d).", ml.Name, ml.ID))
	},
}

var modlistEditCmd = &cobra.Command{
	Use:   "edit <modlist> <name>",
	Short: "Renames a modlist and updates its description and visibility",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		user := currentUser()
		id, err := resolveModlist(user.ID, args[0])
		if err != nil {
			printError(err)
			return
		}
		desc, private := descriptionFlags(cmd)

		if err := modlists.Edit(db.DB, user.ID, id, args[1], desc, private); err != nil {
			printError(err)
			return
		}
		printSuccess("Modlist updated.")
	},
}

var modlistDeleteCmd = &cobra.Command{
	Use:   "delete <modlist>",
	Short: "Deletes a modlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		user := currentUser()
		id, err := resolveModlist(user.ID, args[0])
		if err != nil {
			printError(err)
			return
		}
		if err := modlists.Delete(db.DB, user.ID, id); err != nil {
			printError(err)
			return
		}
		printSuccess("Modlist deleted.")
	},
}

var modlistAddCmd = &cobra.Command{
	Use:   "add <modlist> <mod-id>",
	Short: "Adds a stored mod to a modlist",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		changeMembership(args, true)
	},
}

var modlistRemoveCmd = &cobra.Command{
	Use:   "remove <modlist> <mod-id>",
	Short: "Removes a mod from a modlist",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		changeMembership(args, false)
	},
}

var modlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists modlists grouped by game",
	Run: func(cmd *cobra.Command, args []string) {
		owner, _ := cmd.Flags().GetString("owner")
		bootstrap(configDir)

		viewer := currentUser()
		ownerID := viewer.ID
		if owner != "" {
			u, err := db.UserByName(db.DB, owner)
			if err != nil {
				printError(err)
				return
			}
			ownerID = u.ID
		}

		lists, err := modlists.ListForUser(db.DB, ownerID, viewer.ID)
		if err != nil {
			printError(err)
			return
		}
		if len(lists) == 0 {
			fmt.Println(ui.Muted("No modlists."))
			return
		}
		for _, group := range query.GroupByGame(lists) {
			heading := "No game yet"
			if group.Game != nil {
				heading = group.Game.Name
			}
			if group.AllPrivate {
				heading += " " + ui.PrivateBadge()
			}
			fmt.Println(ui.Title(heading))
			for _, ml := range group.Modlists {
				fmt.Println(modlistLine(ml))
			}
			fmt.Println()
		}
	},
}

var modlistShowCmd = &cobra.Command{
	Use:   "show <modlist>",
	Short: "Shows a modlist and pages through its mods",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		viewer := currentUser()
		id, err := resolveModlist(viewer.ID, args[0])
		if err != nil {
			printError(err)
			return
		}

		ml, err := modlists.Get(db.DB, viewer.ID, id)
		if err != nil {
			printError(err)
			return
		}
		fmt.Println(modlistLine(*ml))
		if ml.Description != nil && *ml.Description != "" {
			fmt.Println(*ml.Description)
		}
		for _, g := range ml.Games {
			fmt.Println(ui.Muted("  game: " + g.Name))
		}
		fmt.Println(ui.Muted("Last updated " + ml.LastUpdated.UTC().Format("2006-01-02 15:04")))
		fmt.Println()

		order, page := pageFlags(cmd)
		res, err := query.ModsPage(query.ModlistMods(db.DB, ml.ID).Scopes(query.HideNSFW(viewer.HideNSFW)), order, page)
		if err != nil {
			printError(err)
			return
		}
		printModsPage(res)
	},
}

var modlistCandidatesCmd = &cobra.Command{
	Use:   "candidates <mod-id>",
	Short: "Lists the modlists a stored mod can be added to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		user := currentUser()
		modID, err := parseID(args[0], "mod id")
		if err != nil {
			printError(err)
			return
		}
		c, err := modlists.GetCandidates(db.DB, user.ID, modID)
		if err != nil {
			printError(err)
			return
		}
		printCandidates(c)
	},
}

func init() {
	rootCmd.AddCommand(modlistCmd)
	modlistCmd.AddCommand(modlistCreateCmd, modlistEditCmd, modlistDeleteCmd,
		modlistAddCmd, modlistRemoveCmd, modlistListCmd, modlistShowCmd, modlistCandidatesCmd)

	for _, c := range []*cobra.Command{modlistCreateCmd, modlistEditCmd} {
		c.Flags().String("description", "", "modlist description")
		c.Flags().Bool("private", false, "hide the modlist from other users")
	}
	modlistListCmd.Flags().String("owner", "", "list another user's public modlists")
	addPageFlags(modlistShowCmd)
}

func descriptionFlags(cmd *cobra.Command) (*string, bool) {
	private, _ := cmd.Flags().GetBool("private")
	if !cmd.Flags().Changed("description") {
		return nil, private
	}
	desc, _ := cmd.Flags().GetString("description")
	return &desc, private
}

func changeMembership(args []string, add bool) {
	bootstrap(configDir)
	user := currentUser()
	listID, err := resolveModlist(user.ID, args[0])
	if err != nil {
		printError(err)
		return
	}
	modID, err := parseID(args[1], "mod id")
	if err != nil {
		printError(err)
		return
	}

	if add {
		err = modlists.AddMod(db.DB, user.ID, listID, modID)
	} else {
		err = modlists.RemoveMod(db.DB, user.ID, listID, modID)
	}
	if err != nil {
		printError(err)
		return
	}
	if add {
		printSuccess(fmt.Sprintf("Mod %d added to modlist %d.", modID, listID))
	} else {
		printSuccess(fmt.Sprintf("Mod %d removed from modlist %d.", modID, listID))
	}
}

// resolveModlist accepts a modlist id or the name of one of the user's modlists.
func resolveModlist(userID int, arg string) (int, error) {
	if id, err := parseID(arg, "modlist id"); err == nil {
		return id, nil
	}
	ml, err := modlists.FindByName(db.DB, userID, arg)
	if err != nil {
		return 0, err
	}
	return ml.ID, nil
}
