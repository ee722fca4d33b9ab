package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"modlist-manager/config"
	"modlist-manager/db"
	"modlist-manager/logger"
	"modlist-manager/modlists"
	"modlist-manager/nexus"
	"modlist-manager/tracked"
	"modlist-manager/ui"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) (config.Config, *nexus.Client) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}
	if cfg.LogFile != "" && cfg.LogFile != logger.DefaultLogFile {
		logger.InitLogger(cfg.LogFile)
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	client, err := nexus.NewClient(cfg, logger.Named("nexus"))
	if err != nil {
		logger.Log.Fatalw("Failed to create Nexus client", zap.Error(err))
	}
	if apiKeyFlag != "" {
		client = client.WithAPIKey(apiKeyFlag)
	}
	return cfg, client
}

// currentUser resolves --user, exiting when it is missing or unknown.
func currentUser() *db.User {
	if userFlag == "" {
		logger.Log.Fatal("Error: --user must be set.")
	}
	user, err := db.UserByName(db.DB, userFlag)
	if err != nil {
		logger.Log.Fatalw("Failed to load user", zap.String("user", userFlag), zap.Error(err))
	}
	return user
}

func newEngine(cfg config.Config) *tracked.Engine {
	return tracked.NewEngine(db.DB, tracked.Options{
		RateLimit: cfg.RateLimit,
		Logger:    logger.Named("tracked"),
	})
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

// describeError turns a domain error into a message for the terminal.
func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tracked.ErrRemoteFetch):
		return "Could not fetch your tracked mods from Nexus. Nothing was changed."
	case errors.Is(err, tracked.ErrPartiallyApplied):
		return "Tracked mods were downloaded but your tracked modlist could not be updated."
	case errors.Is(err, nexus.ErrMissingAPIKey):
		return "A Nexus API key is required. Set NEXUS_API_KEY or pass --api-key."
	case errors.Is(err, nexus.ErrUnauthorized):
		return "Nexus rejected your API key."
	case errors.Is(err, nexus.ErrNotDownloaded):
		return "You must download this mod before you can endorse it."
	case errors.Is(err, nexus.ErrRateLimited):
		return "Nexus rate limit reached, try again later."
	case errors.Is(err, nexus.ErrUnreachable):
		return "Nexus is unreachable right now."
	case errors.Is(err, nexus.ErrNotFound), errors.Is(err, nexus.ErrUnprocessable):
		return "That mod does not exist on Nexus."
	case errors.Is(err, db.ErrModNotFound):
		return "That mod is not in the local catalogue. Open it with 'mod show' first."
	case errors.Is(err, db.ErrGameNotFound):
		return "Unknown game. Run 'games refresh' and try again."
	}

	for _, known := range []error{
		modlists.ErrDuplicateName, modlists.ErrProtected, modlists.ErrNotOwner,
		modlists.ErrNotFound, modlists.ErrAlreadyMember, modlists.ErrNotMember,
		modlists.ErrInvalidName, tracked.ErrNotTracked, tracked.ErrAlreadyKept,
		tracked.ErrNotKept, db.ErrUserExists, db.ErrInvalidCredentials,
		db.ErrUserNotFound, db.ErrInvalidSignup,
	} {
		if errors.Is(err, known) {
			msg := known.Error()
			return strings.ToUpper(msg[:1]) + msg[1:] + "."
		}
	}
	return err.Error()
}

func printError(err error) {
	logger.Log.Warnw("Command failed", zap.Error(err))
	fmt.Println(ui.Error(describeError(err)))
}

func printSuccess(msg string) {
	fmt.Println(ui.Success(msg))
}

func formatTimestamp(epoch int64) string {
	if epoch == 0 {
		return "unknown"
	}
	return time.Unix(epoch, 0).UTC().Format("2006-01-02")
}

func modLine(m db.Mod) string {
	line := fmt.Sprintf("%6d  %s", m.ID, ui.Title(m.Name))
	if m.UploadedBy != "" {
		line += ui.Muted(" by " + m.UploadedBy)
	}
	line += ui.Muted(" (updated " + formatTimestamp(m.UpdatedTimestamp) + ")")
	if m.IsNSFW {
		line += " " + ui.NSFWBadge()
	}
	return line
}

func modlistLine(ml db.Modlist) string {
	line := fmt.Sprintf("%6d  %s", ml.ID, ui.Title(ml.Name))
	if ml.Private {
		line += " " + ui.PrivateBadge()
	}
	if ml.HasNSFW {
		line += " " + ui.NSFWBadge()
	}
	return line
}

// visibleMods filters adult mods for users hiding them.
func visibleMods(mods []db.Mod, hideNSFW bool) []db.Mod {
	if !hideNSFW {
		return mods
	}
	out := make([]db.Mod, 0, len(mods))
	for _, m := range mods {
		if !m.IsNSFW {
			out = append(out, m)
		}
	}
	return out
}
