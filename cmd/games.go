package cmd

import (
	"fmt"

	"modlist-manager/db"
	"modlist-manager/ingest"
	"modlist-manager/logger"
	"modlist-manager/query"
	"modlist-manager/ui"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Browses the Nexus game catalogue",
}

var gamesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Downloads the full game list from Nexus",
	Run: func(cmd *cobra.Command, args []string) {
		_, client := bootstrap(configDir)
		n, err := ingest.RefreshGames(cmd.Context(), client, db.DB, logger.Named("ingest"))
		if err != nil {
			printError(err)
			return
		}
		printSuccess(fmt.Sprintf("Stored %d games.", n))
	},
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists stored games, most downloaded first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		bootstrap(configDir)

		games, err := db.AllGames(db.DB)
		if err != nil {
			printError(err)
			return
		}
		if len(games) == 0 {
			fmt.Println("No games stored yet. Run 'games refresh'.")
			return
		}
		if limit > 0 && len(games) > limit {
			games = games[:limit]
		}
		for _, g := range games {
			fmt.Printf("%-32s %s %s\n", g.DomainName, ui.Title(g.Name), ui.Muted(fmt.Sprintf("(%d downloads)", g.Downloads)))
		}
	},
}

var gamesShowCmd = &cobra.Command{
	Use:   "show <domain>",
	Short: "Shows trending, new and updated mods for a game",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, client := bootstrap(configDir)
		hide := userFlag != "" && currentUser().HideNSFW

		game, err := ingest.LoadGame(cmd.Context(), client, db.DB, args[0], logger.Named("ingest"))
		if err != nil {
			printError(err)
			return
		}
		sections, err := ingest.GameSections(cmd.Context(), client, db.DB, game, logger.Named("ingest"))
		if err != nil {
			printError(err)
			return
		}

		fmt.Println(ui.Title(game.Name))
		for _, section := range sections {
			fmt.Println()
			fmt.Println(ui.Title(section.Title))
			if section.Err {
				fmt.Println(ui.Warning("  Could not load this section from Nexus."))
				continue
			}
			mods := visibleMods(section.Mods, hide)
			if len(mods) == 0 {
				fmt.Println(ui.Muted("  Nothing to show."))
			}
			for _, m := range mods {
				fmt.Println(modLine(m))
			}
		}
	},
}

var gamesModsCmd = &cobra.Command{
	Use:   "mods <domain>",
	Short: "Pages through the locally stored mods of a game",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		hide := userFlag != "" && currentUser().HideNSFW

		game, err := db.GameByDomain(db.DB, args[0])
		if err != nil {
			printError(err)
			return
		}
		order, page := pageFlags(cmd)
		res, err := query.ModsPage(query.GameMods(db.DB, game.ID).Scopes(query.HideNSFW(hide)), order, page)
		if err != nil {
			printError(err)
			return
		}
		printModsPage(res)
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd)
	gamesCmd.AddCommand(gamesRefreshCmd, gamesListCmd, gamesShowCmd, gamesModsCmd)
	gamesListCmd.Flags().Int("limit", 50, "maximum number of games to print (0 for all)")
	addPageFlags(gamesModsCmd)
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("size", query.DefaultPageSize, "page size")
	cmd.Flags().String("order", "recent", "sort order: recent, name or author")
}

func pageFlags(cmd *cobra.Command) (query.Order, query.Page) {
	number, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("size")
	order, _ := cmd.Flags().GetString("order")
	return query.ParseOrder(order), query.Page{Number: number, Size: size}
}

func printModsPage(res *query.PageResult[db.Mod]) {
	if len(res.Items) == 0 {
		fmt.Println(ui.Muted("No mods on this page."))
	}
	for _, m := range res.Items {
		fmt.Println(modLine(m))
	}
	footer := fmt.Sprintf("Page %d (%d mods total)", res.Number, res.Total)
	if res.HasNext {
		footer += fmt.Sprintf(", next: --page %d", res.Number+1)
	}
	fmt.Println(ui.Muted(footer))
}
