package cmd

import (
	"fmt"

	"modlist-manager/db"
	"modlist-manager/ingest"
	"modlist-manager/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var signupCmd = &cobra.Command{
	Use:   "signup <username> <email>",
	Short: "Creates a local account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		bootstrap(configDir)

		user, err := db.Signup(db.DB, args[0], args[1], password)
		if err != nil {
			printError(err)
			return
		}
		logger.Log.Infow("User signed up", zap.Int("user", user.ID), zap.String("username", user.Username))
		printSuccess(fmt.Sprintf("Welcome, %s! Run 'login' to sync your tracked mods.", user.Username))
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Authenticates, refreshes the game list and syncs tracked mods",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		plain, _ := cmd.Flags().GetBool("plain")
		cfg, client := bootstrap(configDir)

		user, err := db.Authenticate(db.DB, args[0], password)
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("Logged in as %s.\n", user.Username)

		// A failed refresh never blocks the login.
		if n, err := ingest.RefreshGames(cmd.Context(), client, db.DB, logger.Named("ingest")); err != nil {
			logger.Log.Warnw("Games refresh failed", zap.Error(err))
			fmt.Println("Could not refresh the game list: " + describeError(err))
		} else {
			fmt.Printf("Game list refreshed (%d games).\n", n)
		}

		if err := runSync(cmd.Context(), cfg, client, user, plain); err != nil {
			printError(err)
		}
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manages your local account",
}

var accountPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Changes your password",
	Run: func(cmd *cobra.Command, args []string) {
		current, _ := cmd.Flags().GetString("current")
		next, _ := cmd.Flags().GetString("new")
		bootstrap(configDir)
		user := currentUser()

		if err := db.ChangePassword(db.DB, user.ID, current, next); err != nil {
			printError(err)
			return
		}
		printSuccess("Password changed.")
	},
}

var accountNSFWCmd = &cobra.Command{
	Use:       "nsfw <show|hide>",
	Short:     "Shows or hides adult content",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"show", "hide"},
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap(configDir)
		user := currentUser()

		var hide bool
		switch args[0] {
		case "hide":
			hide = true
		case "show":
			hide = false
		default:
			fmt.Println("Expected 'show' or 'hide'.")
			return
		}
		if err := db.SetHideNSFW(db.DB, user.ID, hide); err != nil {
			printError(err)
			return
		}
		if hide {
			printSuccess("Adult content will be hidden.")
		} else {
			printSuccess("Adult content will be shown.")
		}
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Deletes your account and all of your modlists",
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		bootstrap(configDir)

		user, err := db.Authenticate(db.DB, userFlag, password)
		if err != nil {
			printError(err)
			return
		}
		if err := db.DeleteUser(db.DB, user.ID); err != nil {
			printError(err)
			return
		}
		printSuccess("Your account has been deleted.")
	},
}

func init() {
	rootCmd.AddCommand(signupCmd, loginCmd, accountCmd)
	accountCmd.AddCommand(accountPasswordCmd, accountNSFWCmd, accountDeleteCmd)

	signupCmd.Flags().StringP("password", "p", "", "account password")
	_ = signupCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("password", "p", "", "account password")
	loginCmd.Flags().Bool("plain", false, "print sync results without the interactive progress view")
	_ = loginCmd.MarkFlagRequired("password")

	accountPasswordCmd.Flags().String("current", "", "current password")
	accountPasswordCmd.Flags().String("new", "", "new password")
	_ = accountPasswordCmd.MarkFlagRequired("current")
	_ = accountPasswordCmd.MarkFlagRequired("new")

	accountDeleteCmd.Flags().StringP("password", "p", "", "account password")
	_ = accountDeleteCmd.MarkFlagRequired("password")
}
