// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sm2anki CLI, which converts
// SuperMemo collection exports into Anki import files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sm2anki CLI.
var rootCmd = &cobra.Command{
	Use:   "sm2anki",
	Short: "Convert SuperMemo collections to Anki",
	Long: `sm2anki converts a SuperMemo collection exported as text ("Begin Element #N"
blocks) into a tab-separated file that Anki can import. SuperMemo categories
become Anki tags and sound files are referenced relative to the collection's
media directory.

Use convert for a one-off conversion, inspect to look at the parsed elements,
and catalog to keep converted collections in a local database.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sm2anki.yaml or ~/.config/sm2anki/sm2anki.yaml)")
	rootCmd.PersistentFlags().String("encoding", "", "character encoding of the export: utf-8, utf-16, windows-1252, iso-8859-1 (default utf-8)")
	_ = viper.BindPFlag("encoding", rootCmd.PersistentFlags().Lookup("encoding"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sm2anki")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sm2anki"))
		}
	}

	viper.SetEnvPrefix("SM2ANKI")
	viper.AutomaticEnv()

	viper.SetDefault("encoding", "utf-8")
	viper.SetDefault("workers", 1)
	viper.SetDefault("catalog_dir", defaultCatalogDir())
	viper.SetDefault("max_results", 1000)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultCatalogDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "sm2anki")
	}
	return ".sm2anki"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
