package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/paths"
	"github.com/ruminaider/vselect/internal/search"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vselect configuration",
	Long:  "Commands for creating and inspecting ~/.vselect/config.yaml.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := paths.Resolve(pickConfig, paths.ConfigFile())
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		height := strconv.Itoa(cfg.Height)
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Allow multiple selection by default?").
					Value(&cfg.Multiple),
				huh.NewSelect[string]().
					Title("Search mode").
					Options(
						huh.NewOption("substring", string(search.ModeSubstring)),
						huh.NewOption("fuzzy", string(search.ModeFuzzy)),
					).
					Value(&cfg.Search.Mode),
				huh.NewConfirm().
					Title("Match group labels when searching?").
					Value(&cfg.Search.MatchGroupLabel),
				huh.NewInput().
					Title("List height (rows)").
					Value(&height).
					Validate(validateHeight),
				huh.NewSelect[string]().
					Title("Language").
					Options(
						huh.NewOption("auto ($LANG)", ""),
						huh.NewOption("English", "en"),
						huh.NewOption("Français", "fr"),
					).
					Value(&cfg.Locale),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}

		cfg.Height, _ = strconv.Atoi(height)
		cfg = config.Normalize(cfg)
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(pickConfig)
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func validateHeight(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func init() {
	configCmd.PersistentFlags().StringVarP(&pickConfig, "config", "c", "", "Config file (default: ~/.vselect/config.yaml)")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
