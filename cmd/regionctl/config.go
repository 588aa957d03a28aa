package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "REGIONCTL"
	defaultConfigFile = ".regionctl.yaml"
)

// initializeConfig reads the config file and REGIONCTL_* environment
// variables and applies them to every flag the user did not set.
func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	path := cfgFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, defaultConfigFile)
		}
	}
	if path != "" && fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", path)
		}
	} else if cfgFile != "" {
		return errors.Errorf("config file %s not found", cfgFile)
	}

	// --block-size binds to REGIONCTL_BLOCK_SIZE in bindFlags
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return errors.Wrap(err, "bind flags failed")
	}
	return nil
}

// bindFlags applies viper values (config file, then environment) to each flag
// that was not set on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindFlagErr != nil {
			return
		}

		// Environment variables can't have dashes in them
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = errors.Wrap(err, "could not bind env to cobra flag")
				return
			}
		}

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindFlagErr = errors.Wrapf(err, "could not set flag --%s from config", f.Name)
				return
			}
		}
	})
	return bindFlagErr
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
