// Package common provides shared utilities for command implementations.
package common

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/doctracer/internal/config"
	"github.com/jonesrussell/doctracer/internal/logger"
	"github.com/jonesrussell/doctracer/internal/signature"
)

// Global flag names, registered on the root command.
const (
	FlagConfig = "config"
	FlagDebug  = "debug"
)

// FlagBinding maps a command flag onto a configuration key.
type FlagBinding struct {
	Key  string
	Flag string
}

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// NewCommandDeps loads the layered configuration for cmd, binding the given
// flags over it, and creates the logger.
func NewCommandDeps(cmd *cobra.Command, bindings ...FlagBinding) (CommandDeps, error) {
	// A missing .env file is fine; values can come from the environment directly.
	_ = godotenv.Load()

	cfgFile, _ := cmd.Flags().GetString(FlagConfig)

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return CommandDeps{}, err
	}

	bindings = append(bindings, FlagBinding{Key: "app.debug", Flag: FlagDebug})
	if bindErr := bindFlags(v, cmd, bindings); bindErr != nil {
		return CommandDeps{}, bindErr
	}

	cfg, err := config.Load(v)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	return CommandDeps{
		Logger: log.With("app", cfg.App.Name),
		Config: cfg,
	}, nil
}

// LoadSignatures returns the table at path, or the built-in table when path is empty.
func LoadSignatures(path string) (*signature.Index, error) {
	if path == "" {
		return signature.Default(), nil
	}
	idx, err := signature.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load signatures: %w", err)
	}
	return idx, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings []FlagBinding) error {
	for _, b := range bindings {
		flag := cmd.Flags().Lookup(b.Flag)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(b.Key, flag); err != nil {
			return fmt.Errorf("failed to bind %s flag: %w", b.Flag, err)
		}
	}
	return nil
}
