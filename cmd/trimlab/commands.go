package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/trimlab/internal/config"
	"github.com/kikiluvv/trimlab/internal/editor"
	"github.com/kikiluvv/trimlab/internal/gui"
	"github.com/kikiluvv/trimlab/internal/logging"
	"github.com/kikiluvv/trimlab/internal/playback"
	"github.com/kikiluvv/trimlab/internal/terminal"
	"github.com/kikiluvv/trimlab/pkg/util"
)

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Show the tracks and orientation of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		asset, err := engine.LoadAsset(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderAsset(asset))
		return nil
	},
}

var composeFlags trimFlags

var composeCmd = &cobra.Command{
	Use:   "compose [input video]",
	Short: "Build the trimmed output and describe it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		_, _, out, err := loadAndCompose(cmd.Context(), cfg, args[0], &composeFlags)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderOutput(out))
		return nil
	},
}

var playFlags trimFlags

var playCmd = &cobra.Command{
	Use:   "play [input video]",
	Short: "Play the trimmed output in an ffplay window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		_, _, out, err := loadAndCompose(cmd.Context(), cfg, args[0], &playFlags)
		if err != nil {
			return err
		}

		driver, err := playback.NewFFplayDriver(log.Logger, cfg.FFmpeg.PlayerPath)
		if err != nil {
			return err
		}
		defer driver.Close()

		if err := driver.Replace(cmd.Context(), out); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderOutput(out))

		if err := driver.Wait(cmd.Context()); err != nil && !errors.Is(err, cmd.Context().Err()) {
			return err
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [input video]",
	Short: "Trim interactively in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		var driver playback.Driver
		if d, err := playback.NewFFplayDriver(log.Logger, cfg.FFmpeg.PlayerPath); err != nil {
			log.Warn().Err(err).Msg("playback disabled")
		} else {
			driver = d
		}

		session := editor.New(log.Logger, newComposer(cfg), engine, driver)
		defer session.Close()

		var initial string
		if len(args) == 1 {
			initial = args[0]
		}
		return terminal.RunEditor(cmd.Context(), session, terminal.PromptUI{}, cmd.OutOrStdout(), initial)
	},
}

var guiCmd = &cobra.Command{
	Use:   "gui [input video]",
	Short: "Open the desktop editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		var initial string
		if len(args) == 1 {
			initial = args[0]
		}
		return gui.RunGUI(cmd.Context(), log.Logger, newComposer(cfg), engine, cfg, initial)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var (
	configInitPath  string
	configInitForce bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configInitPath
		if path == "" {
			path = config.DefaultPath()
		}

		if util.FileExists(path) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	composeFlags.register(composeCmd)
	playFlags.register(playCmd)
	previewFlags.register(previewCmd)

	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "where to write the config (default: $HOME/.trimlab/config.yaml)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
