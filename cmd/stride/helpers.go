package stride

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/strideapp/stride-cli/internal/app"
	"github.com/strideapp/stride-cli/internal/db"
	"github.com/strideapp/stride-cli/internal/settings"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func parseDateOrToday(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", value)
	}
	return t.Format("2006-01-02"), nil
}

// updateSettings loads, mutates, and saves the configuration in one step.
func updateSettings(sqldb *sql.DB, mutate func(*settings.Settings) error) (settings.Settings, error) {
	cfg, err := settings.LoadSettings(sqldb)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := mutate(&cfg); err != nil {
		return settings.Settings{}, err
	}
	if err := settings.SaveSettings(sqldb, cfg); err != nil {
		return settings.Settings{}, err
	}
	return cfg, nil
}
