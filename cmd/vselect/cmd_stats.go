package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ruminaider/vselect/cmd/vselect/tui"
	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/dropdown"
	"github.com/ruminaider/vselect/internal/source"
	"github.com/ruminaider/vselect/internal/view"
)

var (
	statsQuery string
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Filter a list headlessly and report what would render",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := pickFile
		if len(args) == 1 {
			path = args[0]
		}
		cfg, err := loadConfig(pickConfig)
		if err != nil {
			return err
		}
		items, err := readItems(path, cmd.InOrStdin(), pickFormat)
		if err != nil {
			return err
		}
		rep, err := buildReport(items, cfg, statsQuery)
		if err != nil {
			return err
		}
		return rep.write(cmd.OutOrStdout(), statsJSON)
	},
}

func init() {
	statsCmd.Flags().StringVarP(&pickFile, "file", "f", "", "Snapshot to load (default: stdin)")
	statsCmd.Flags().StringVar(&pickFormat, "format", formatAuto, "Input format: auto, yaml, json or lines")
	statsCmd.Flags().StringVarP(&pickConfig, "config", "c", "", "Config file (default: ~/.vselect/config.yaml)")
	statsCmd.Flags().StringVarP(&statsQuery, "query", "q", "", "Search query to apply")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON")
}

type report struct {
	Query    string   `json:"query"`
	Visible  int      `json:"visible"`
	Total    int      `json:"total"`
	Groups   int      `json:"groups"`
	Rows     int      `json:"rows"`
	Live     int      `json:"live_views"`
	Built    int      `json:"views_built"`
	Height   int      `json:"content_height"`
	Rendered []string `json:"rendered"`
}

// buildReport runs the dropdown against a headless viewport.
func buildReport(items []source.Descriptor, cfg config.Config, query string) (report, error) {
	cfg = config.Normalize(cfg)
	vp := tui.NewViewport(tui.DefaultWidth, cfg.Height)
	d := dropdown.New(vp, dropdown.Options{
		Multiple:       cfg.Multiple,
		Overscan:       cfg.Overscan,
		EstimateHeight: cfg.EstimateHeight,
		Search:         cfg.SearchOptions(),
	})
	defer d.Destroy()

	if err := d.Load(items); err != nil {
		return report{}, err
	}
	if err := d.Open(); err != nil {
		return report{}, err
	}
	d.Search(query)

	r := d.Recycler()
	st := d.Adapter().VisibilityStats()
	rep := report{
		Query:   query,
		Visible: st.VisibleCount,
		Total:   st.TotalCount,
		Groups:  len(d.Adapter().Groups()),
		Rows:    r.RowCount(),
		Live:    r.LiveCount(),
		Built:   r.Constructed(),
		Height:  r.TotalHeight(),
	}
	for _, s := range r.Window() {
		switch h := s.Holder.(type) {
		case *view.OptionView:
			rep.Rendered = append(rep.Rendered, h.Label())
		case *view.GroupView:
			rep.Rendered = append(rep.Rendered, "["+h.Label()+"]")
		}
	}
	return rep, nil
}

func (r report) write(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Fprintf(w, "%d of %d options visible (%d groups)\n", r.Visible, r.Total, r.Groups)
	fmt.Fprintf(w, "%d rows, %d lines, %d live views (%d built)\n", r.Rows, r.Height, r.Live, r.Built)
	for _, s := range r.Rendered {
		fmt.Fprintf(w, "  %s\n", s)
	}
	return nil
}
