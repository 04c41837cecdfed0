package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui/views"
)

type infoRunner struct {
	svc *service.Service
	cfg *config.Config
}

func NewInfoCmd(svc *service.Service, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database path, and system details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				svc: svc,
				cfg: cfg,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	configPath := r.cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbPath := r.cfg.Database.Path
	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	items := views.SystemInfoItem{
		ConfigPath:   configPath,
		DBPath:       dbPath,
		DBExists:     dbExists,
		BaseCurrency: r.cfg.Defaults.Currency,
		AppDataDir:   getAppDataDirOrPanic(),
	}

	return views.RenderSystemInfo(items)
}

func getAppDataDirOrPanic() string {
	dir, err := getAppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
