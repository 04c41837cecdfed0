package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tallybook/tally/cmd/account"
	"github.com/tallybook/tally/cmd/transaction"
	"github.com/tallybook/tally/internal/app"
	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/errhandler"
	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui/prompts"
)

var (
	cfgFile string
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	if err := initConfig(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	application, cleanup, err := app.NewApp(cfg, migrations)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	defer cleanup()

	if err := initSysAcc(application.Service); err != nil {
		os.Exit(errhandler.Handle(err))
	}

	rootCmd := &cobra.Command{
		Use:           "tally",
		Short:         "tally is a CLI based double-entry budgeting ledger",
		Long:          `tally is a CLI based double-entry budgeting ledger`,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")

	rootCmd.AddCommand(account.NewAccountCmd(application.Service))
	rootCmd.AddCommand(transaction.NewTransactionCmd(application.Service))
	rootCmd.AddCommand(NewInfoCmd(application.Service, cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(errhandler.Handle(err))
	}
}

// initSysAcc makes sure the system accounts exist before any command runs,
// prompting for the base currency on first launch.
func initSysAcc(svc *service.Service) error {
	currency := viper.GetString("defaults.currency")

	if currency == "" {
		var err error
		currency, err = initWizard()
		if err != nil {
			return err
		}
		cfg.Defaults.Currency = currency
	}

	if err := svc.Account.EnsureSystemAccounts(); err != nil {
		return fmt.Errorf("failed to create system accounts: %w", err)
	}

	return nil
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := getAppDataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := createDefaultConfig(); err != nil {
		return fmt.Errorf("failed to ensure config file: %w", err)
	}

	viper.SetEnvPrefix("TALLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {

		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	cfg.ConfigPath = viper.ConfigFileUsed()

	return nil
}

func initWizard() (string, error) {
	currentDefault := viper.GetString("defaults.currency")
	if currentDefault == "" {
		currentDefault = "USD"
	}

	currency, err := prompts.PromptInitCurrency(currentDefault)
	if err != nil {
		return "", err
	}

	viper.Set("defaults.currency", currency)

	if err := viper.WriteConfig(); err != nil {
		return "", fmt.Errorf("failed to save config to file: %w", err)
	}

	pterm.Success.Printf("Configuration saved. Base currency set to: %s\n", currency)

	return currency, nil
}

func getAppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".tally"), nil
	}

	return filepath.Join(configDir, "tally"), nil
}

func createDefaultConfig() error {
	appDir, err := getAppDataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

