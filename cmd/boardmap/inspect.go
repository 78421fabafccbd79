package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/boardmap"
	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/explorer"
	"github.com/hupe1980/boardmap/model"
	"github.com/spf13/cobra"
)

type inspectFlags struct {
	grades        []string
	angles        []int
	minDifficulty float64
	maxDifficulty float64
	minAngle      float64
	maxAngle      float64
	minAscents    int
	selectAt      string
	width         float64
	height        float64
	route         string
	search        string
	format        string
	limit         int
}

func newInspectCmd() *cobra.Command {
	var f inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect PACKAGE",
		Short: "Open a package and apply filters, clicks and searches",
		Example: `  boardmap inspect board.bmpk --grade V4,V5 --angle 40
  boardmap inspect board.bmpk --min-difficulty 18 --select 400,300
  boardmap inspect board.bmpk --min-angle 30 --max-angle 45
  boardmap inspect s3://my-bucket/boards/board.bmpk --route r-17 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], &f)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&f.grades, "grade", nil, "show only these grades")
	flags.IntSliceVar(&f.angles, "angle", nil, "show only these board angles")
	flags.Float64Var(&f.minDifficulty, "min-difficulty", 0, "minimum difficulty")
	flags.Float64Var(&f.maxDifficulty, "max-difficulty", 0, "maximum difficulty")
	flags.Float64Var(&f.minAngle, "min-angle", 0, "minimum board angle")
	flags.Float64Var(&f.maxAngle, "max-angle", 0, "maximum board angle")
	flags.IntVar(&f.minAscents, "min-ascents", 0, "minimum ascent count")
	flags.StringVar(&f.selectAt, "select", "", "click at pixel X,Y in the scatter view")
	flags.Float64Var(&f.width, "width", 800, "scatter view width in pixels")
	flags.Float64Var(&f.height, "height", 600, "scatter view height in pixels")
	flags.StringVar(&f.route, "route", "", "show the detail view of this route")
	flags.StringVar(&f.search, "search", "", "select the first visible route whose name matches")
	flags.StringVar(&f.format, "format", "text", "output format: text or json")
	flags.IntVar(&f.limit, "limit", 20, "visible routes listed in text output, 0 for all")
	return cmd
}

// filter builds the filter from the flags set on the command line, or nil
// if none is.
func (f *inspectFlags) filter(cmd *cobra.Command) *explorer.Filter {
	flags := cmd.Flags()
	var (
		flt     explorer.Filter
		changed bool
	)
	if flags.Changed("grade") {
		flt.Grades, changed = f.grades, true
	}
	if flags.Changed("angle") {
		flt.Angles, changed = f.angles, true
	}
	if r := rangeFlags(cmd, "difficulty", f.minDifficulty, f.maxDifficulty); r != nil {
		flt.Difficulty, changed = r, true
	}
	if r := rangeFlags(cmd, "angle", f.minAngle, f.maxAngle); r != nil {
		flt.AngleRange, changed = r, true
	}
	if flags.Changed("min-ascents") {
		flt.MinAscents, changed = f.minAscents, true
	}
	if !changed {
		return nil
	}
	return &flt
}

// rangeFlags builds the range set by --min-<name> and --max-<name>, or nil if
// neither is set. A missing side is open.
func rangeFlags(cmd *cobra.Command, name string, lo, hi float64) *explorer.Range {
	flags := cmd.Flags()
	minSet, maxSet := flags.Changed("min-"+name), flags.Changed("max-"+name)
	if !minSet && !maxSet {
		return nil
	}
	r := explorer.Range{Min: lo, Max: hi}
	if !minSet {
		r.Min = -math.MaxFloat64
	}
	if !maxSet {
		r.Max = math.MaxFloat64
	}
	return &r
}

func parsePixel(s string) (explorer.Pixel, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return explorer.Pixel{}, fmt.Errorf("invalid pixel %q: want X,Y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return explorer.Pixel{}, fmt.Errorf("invalid pixel %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return explorer.Pixel{}, fmt.Errorf("invalid pixel %q: %w", s, err)
	}
	return explorer.Pixel{X: x, Y: y}, nil
}

// inspectReport is the output of inspect.
type inspectReport struct {
	Package  string             `json:"package"`
	Bytes    int64              `json:"bytes"`
	Info     *model.PackageInfo `json:"info,omitempty"`
	Total    int                `json:"total"`
	Grades   []string           `json:"grades"`
	Angles   []int              `json:"angles"`
	Filter   *explorer.Filter   `json:"filter,omitempty"`
	Visible  int                `json:"visible"`
	Selected string             `json:"selected,omitempty"`
	Markers  []explorer.Marker  `json:"markers"`
	Detail   *routeDetailReport `json:"detail,omitempty"`
	routes   []explorer.VisibleRoute
}

type routeDetailReport struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Grade      string           `json:"grade"`
	Difficulty float64          `json:"difficulty"`
	Angle      int              `json:"angle"`
	Quality    float64          `json:"quality"`
	Ascents    int              `json:"ascents"`
	Layout     string           `json:"layout"`
	ImageRef   string           `json:"image_ref,omitempty"`
	Overlay    explorer.Overlay `json:"overlay"`
}

func runInspect(cmd *cobra.Command, pkg string, f *inspectFlags) error {
	ctx := cmd.Context()
	if f.format != "text" && f.format != "json" {
		return fmt.Errorf("unknown format %q: want text or json", f.format)
	}

	loc, err := resolveLocation(ctx, pkg)
	if err != nil {
		return err
	}
	p := boardmap.New(loc.store)
	s, err := p.Open(ctx, loc.name)
	if err != nil {
		return err
	}

	vp := s.Viewport(f.width, f.height)
	st := explorer.NewState(s)
	flt := f.filter(cmd)
	if flt != nil {
		if st, err = explorer.Dispatch(s, vp, st, explorer.Event{Kind: explorer.EventFilterChange, Filter: *flt}); err != nil {
			return err
		}
	}
	if f.selectAt != "" {
		px, err := parsePixel(f.selectAt)
		if err != nil {
			return err
		}
		if st, err = explorer.Dispatch(s, vp, st, explorer.Event{Kind: explorer.EventSelect, Point: px}); err != nil {
			return err
		}
	}
	if f.search != "" {
		if st, err = explorer.Dispatch(s, vp, st, explorer.Event{Kind: explorer.EventSearch, Query: f.search}); err != nil {
			return err
		}
	}

	report := &inspectReport{
		Package:  pkg,
		Info:     s.Info(),
		Total:    s.Len(),
		Grades:   s.Grades(),
		Angles:   s.Angles(),
		Filter:   flt,
		Visible:  len(st.Visible),
		Selected: st.Selected,
		Markers:  explorer.Scatter(st, vp),
		routes:   st.Visible,
	}
	if blob, err := loc.store.Open(ctx, loc.name); err == nil {
		report.Bytes = blob.Size()
		_ = blob.Close()
	}

	detailID := f.route
	if detailID == "" {
		detailID = st.Selected
	}
	if detailID != "" {
		d, err := s.RouteDetail(detailID)
		if err != nil {
			return err
		}
		report.Detail = newRouteDetailReport(d)
	}

	w := cmd.OutOrStdout()
	if f.format == "json" {
		data, err := codec.GoJSON{}.MarshalIndent(report)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	return printInspectReport(w, report, f.limit)
}

func newRouteDetailReport(d *explorer.RouteDetail) *routeDetailReport {
	return &routeDetailReport{
		ID:         d.Route.ID,
		Name:       d.Route.Name,
		Grade:      d.Route.Grade,
		Difficulty: d.Route.Difficulty,
		Angle:      d.Route.Angle,
		Quality:    d.Route.Quality,
		Ascents:    d.Route.Ascents,
		Layout:     d.Layout.Name,
		ImageRef:   d.Layout.ImageRef,
		Overlay:    explorer.NewOverlay(d),
	}
}

func printInspectReport(w io.Writer, r *inspectReport, limit int) error {
	fmt.Fprintf(w, "Package %s", r.Package)
	if r.Bytes > 0 {
		fmt.Fprintf(w, " (%s)", humanize.Bytes(uint64(r.Bytes)))
	}
	fmt.Fprintln(w)
	if r.Info != nil {
		fmt.Fprintf(w, "  threshold: %g (requested %g)\n", r.Info.EffectiveThreshold, r.Info.RequestedThreshold)
		fmt.Fprintf(w, "  created:   %s\n", humanize.Time(r.Info.CreatedAt))
	}
	fmt.Fprintf(w, "  routes:    %d visible of %d\n", r.Visible, r.Total)
	fmt.Fprintf(w, "  grades:    %s\n", strings.Join(r.Grades, " "))
	fmt.Fprintf(w, "  angles:    %s\n", joinInts(r.Angles))

	rows := r.routes
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if len(rows) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tGRADE\tDIFFICULTY\tANGLE\tASCENTS\tX\tY")
		for _, v := range rows {
			mark := ""
			if v.ID == r.Selected {
				mark = " *"
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%g\t%d\t%d\t%.3f\t%.3f\n",
				v.ID, mark, v.Name, v.Grade, v.Difficulty, v.Angle, v.Ascents, v.Point.X, v.Point.Y)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(rows) < len(r.routes) {
			fmt.Fprintf(w, "... %d more\n", len(r.routes)-len(rows))
		}
	}

	if d := r.Detail; d != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Route %s %q\n", d.ID, d.Name)
		fmt.Fprintf(w, "  grade %s, difficulty %g, angle %d, quality %.2f, %s ascents\n",
			d.Grade, d.Difficulty, d.Angle, d.Quality, humanize.Comma(int64(d.Ascents)))
		fmt.Fprintf(w, "  layout %s (%gx%g)\n", d.Layout, d.Overlay.Width, d.Overlay.Height)
		for _, g := range d.Overlay.Groups {
			fmt.Fprintf(w, "  %-6s %d holds (%s)\n", g.Role, len(g.Points), g.Color)
		}
	}
	return nil
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
