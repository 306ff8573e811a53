package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ruminaider/vselect/cmd/vselect/tui"
	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/locale"
	"github.com/ruminaider/vselect/internal/logging"
	"github.com/ruminaider/vselect/internal/paths"
	"github.com/ruminaider/vselect/internal/search"
	"github.com/ruminaider/vselect/internal/source"
	"github.com/ruminaider/vselect/internal/watcher"
)

var (
	pickFile     string
	pickFormat   string
	pickConfig   string
	pickMultiple bool
	pickWatch    bool
	pickRemote   string
	pickParam    string
	pickCopy     bool
	pickOutput   string
	pickLocale   string
)

var errCanceled = errors.New("selection canceled")

var pickCmd = &cobra.Command{
	Use:   "pick [file]",
	Short: "Pick from a list interactively",
	Long: `Open the picker over a YAML, JSON or plain-text list and print the chosen values.
Without a file the list is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPick,
}

func init() {
	registerPickFlags(pickCmd)
}

func registerPickFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pickFile, "file", "f", "", "Snapshot to load (default: stdin)")
	cmd.Flags().StringVar(&pickFormat, "format", formatAuto, "Input format: auto, yaml, json or lines")
	cmd.Flags().StringVarP(&pickConfig, "config", "c", "", "Config file (default: ~/.vselect/config.yaml)")
	cmd.Flags().BoolVarP(&pickMultiple, "multiple", "m", false, "Allow picking more than one option")
	cmd.Flags().BoolVarP(&pickWatch, "watch", "w", false, "Reload the snapshot when it changes on disk")
	cmd.Flags().StringVar(&pickRemote, "remote", "", "Search endpoint; overrides remote.url from config")
	cmd.Flags().StringVar(&pickParam, "param", "", "Query parameter for --remote")
	cmd.Flags().BoolVar(&pickCopy, "copy", false, "Also copy the selection to the clipboard")
	cmd.Flags().StringVarP(&pickOutput, "output", "o", outputLines, "Output format: lines or json")
	cmd.Flags().StringVar(&pickLocale, "locale", "", "UI language, e.g. en or fr")
}

func runPick(cmd *cobra.Command, args []string) error {
	path := pickFile
	if len(args) == 1 {
		path = args[0]
	}
	if pickWatch && (path == "" || path == "-") {
		return fmt.Errorf("--watch needs a snapshot file")
	}

	// Config and snapshot are independent; read them together.
	var (
		cfg   config.Config
		items []source.Descriptor
		g     errgroup.Group
	)
	g.Go(func() error {
		var err error
		cfg, err = loadConfig(pickConfig)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = readItems(path, cmd.InOrStdin(), pickFormat)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	applyPickFlags(cmd, &cfg)

	log, err := logging.Open(paths.Resolve(cfg.Log.File, ""), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	input, closeInput, err := terminalInput()
	if err != nil {
		return err
	}
	defer closeInput()

	loc, err := locale.New(cfg.Locale)
	if err != nil {
		return err
	}

	opts := tui.Options{Config: cfg, Locale: loc, Logger: log.Logger, Items: items}
	if cfg.Remote.URL != "" {
		client := &search.Client{
			URL:   cfg.Remote.URL,
			Param: cfg.Remote.Param,
			HTTP:  &http.Client{Timeout: cfg.Timeout()},
		}
		opts.Remote = search.NewController(client, log.Logger)
	}
	if pickWatch {
		w, err := watcher.New(path, 0, log.Logger)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		opts.Watcher = w
		opts.Reload = snapshotReloader(pickFormat)
	}

	model, err := tui.NewModel(opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithInput(input),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	result := final.(tui.Model)
	if result.Canceled || !result.Done {
		return errCanceled
	}

	if err := writeSelection(cmd.OutOrStdout(), result.Selected(), pickOutput); err != nil {
		return err
	}
	if pickCopy {
		if err := clipboard.WriteAll(strings.Join(result.Values(), "\n")); err != nil {
			log.Warn("copying selection", "error", err)
			fmt.Fprintln(os.Stderr, "Warning: could not copy to clipboard:", err)
		} else {
			fmt.Fprintln(os.Stderr, loc.T(locale.Copied, nil))
		}
	}
	return nil
}

// applyPickFlags lets explicit flags override the config file.
func applyPickFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("multiple") {
		cfg.Multiple = pickMultiple
	}
	if pickRemote != "" {
		cfg.Remote.URL = pickRemote
	}
	if pickParam != "" {
		cfg.Remote.Param = pickParam
	}
	if pickLocale != "" {
		cfg.Locale = pickLocale
	}
	*cfg = config.Normalize(*cfg)
}

// terminalInput returns the keyboard. When stdin carries the list, the
// keyboard is the controlling terminal instead.
func terminalInput() (io.Reader, func(), error) {
	if term.IsTerminal(os.Stdin.Fd()) {
		return os.Stdin, func() {}, nil
	}
	tty, err := os.Open(filepath.Join("/dev", "tty"))
	if err != nil {
		return nil, nil, fmt.Errorf("no terminal available for the picker (try 'vselect stats'): %w", err)
	}
	if !term.IsTerminal(tty.Fd()) {
		tty.Close()
		return nil, nil, fmt.Errorf("no terminal available for the picker (try 'vselect stats')")
	}
	return tty, func() { tty.Close() }, nil
}
