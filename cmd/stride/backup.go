package stride

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up and restore the database file",
}

var (
	backupOut    string
	backupDir    string
	restoreFile  string
	restoreForce bool
)

func defaultBackupDir(dbFile string) string {
	if backupDir != "" {
		return backupDir
	}
	return filepath.Join(filepath.Dir(dbFile), "backups")
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a checksummed copy of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		out := backupOut
		if out == "" {
			stamp := time.Now().Format("20060102T150405")
			out = filepath.Join(defaultBackupDir(dbFile), "stride-"+stamp+".db")
		}
		info, err := service.CreateBackup(dbFile, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s (%d bytes)\n", info.Path, info.SizeBytes)
		fmt.Fprintf(cmd.OutOrStdout(), "sha256: %s\n", info.Checksum)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show existing backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		items, err := service.ListBackups(defaultBackupDir(dbFile))
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No backups found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "CREATED\tSIZE\tSHA256\tFILE")
		for _, it := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%.12s\t%s\n",
				it.CreatedAt.Format("2006-01-02 15:04"), it.SizeBytes, it.Checksum, it.Path)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the database with a verified backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		dbFile, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := service.RestoreBackup(restoreFile, dbFile, restoreForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s\n", restoreFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Write the backup to this exact path")
	backupCreateCmd.Flags().StringVar(&backupDir, "dir", "", "Directory for generated backup names")
	backupListCmd.Flags().StringVar(&backupDir, "dir", "", "Directory to scan (default: backups/ next to the database)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup .db file to restore")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Replace the database even if it already exists")
}
