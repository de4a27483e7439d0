package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/smartcity-backend-go/internal/dashboard"
	"github.com/jengzang/smartcity-backend-go/internal/grid"
	"github.com/jengzang/smartcity-backend-go/internal/mapview"
)

// Data sources for views
const (
	sourceAPI  = "api"
	sourceDemo = "demo"
)

// loadItems fetches map items from the API or the local demo store
func (a *app) loadItems(ctx context.Context, source string) ([]mapview.Item, error) {
	switch source {
	case sourceAPI:
		cs, err := a.client().ListComplaints(ctx)
		if err != nil {
			return nil, err
		}
		return mapview.FromComplaints(cs), nil
	case sourceDemo:
		st, err := a.store()
		if err != nil {
			return nil, err
		}
		return mapview.FromReports(st.Load()), nil
	}
	return nil, fmt.Errorf("unknown source %q (api or demo)", source)
}

func (a *app) loadEntries(ctx context.Context, source string) ([]dashboard.Entry, error) {
	switch source {
	case sourceAPI:
		cs, err := a.client().ListComplaints(ctx)
		if err != nil {
			return nil, err
		}
		return dashboard.FromComplaints(cs), nil
	case sourceDemo:
		st, err := a.store()
		if err != nil {
			return nil, err
		}
		return dashboard.FromReports(st.Load()), nil
	}
	return nil, fmt.Errorf("unknown source %q (api or demo)", source)
}

func newDashboardCmd(a *app) *cobra.Command {
	var (
		source string
		filter dashboard.Filter
		days   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "KPIs and daily submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.loadEntries(cmd.Context(), source)
			if err != nil {
				return err
			}
			entries := filter.Apply(all)
			kpi := dashboard.KPIs(entries)
			chart := dashboard.DailyChart(entries, days, time.Now())

			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"kpi":        kpi,
					"chart":      chart,
					"categories": dashboard.Categories(all),
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Total %d | New %d | In progress %d | Done %d | Rejected %d\n\n",
				kpi.Total, kpi.New, kpi.InProgress, kpi.Done, kpi.Rejected)
			for _, d := range chart.Days {
				fmt.Fprintf(w, "%s %4d %s\n", d.Date, d.Count, bar(d.Count, chart.Max, 30))
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&source, "source", sourceAPI, "data source: api or demo")
	fl.StringVar(&filter.Category, "category", "all", "category filter")
	fl.StringVar(&filter.Status, "status", "all", "status filter")
	fl.IntVar(&days, "days", dashboard.DefaultDays, "chart window in days")
	fl.BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func newMapCmd(a *app) *cobra.Command {
	var (
		source, mode, out string
		gridSize          float64
		geojson           bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render a map layer (markers, heatmap or zones)",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.loadItems(cmd.Context(), source)
			if err != nil {
				return err
			}
			layer := mapview.Build(mode, items, gridSize)

			var doc interface{} = layer
			if geojson {
				doc = layer.GeoJSON()
			}
			if out == "" {
				return printJSON(cmd.OutOrStdout(), doc)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := printJSON(f, doc); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d shapes written to %s (%d skipped)\n", layer.Mode, len(layer.Circles), out, layer.Skipped)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&source, "source", sourceAPI, "data source: api or demo")
	fl.StringVar(&mode, "mode", mapview.ModeMarkers, "markers, heatmap or zones")
	fl.Float64Var(&gridSize, "grid-size", grid.DefaultSize, "heatmap cell size in degrees")
	fl.BoolVar(&geojson, "geojson", false, "emit a GeoJSON FeatureCollection")
	fl.StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func newHotspotsCmd(a *app) *cobra.Command {
	var (
		source   string
		gridSize float64
	)

	cmd := &cobra.Command{
		Use:   "hotspots",
		Short: "Busiest grid cells",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.loadItems(cmd.Context(), source)
			if err != nil {
				return err
			}
			records := make([]grid.Record, len(items))
			for i := range items {
				records[i] = items[i]
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "#\tLAT\tLNG\tCOUNT\tDONE\tACTIVE\tREJECTED")
			for i, c := range grid.Hotspots(records, gridSize) {
				fmt.Fprintf(tw, "%d\t%.5f\t%.5f\t%d\t%d\t%d\t%d\n", i+1, c.Lat, c.Lng, c.Count, c.Done, c.Active, c.Rejected)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&source, "source", sourceAPI, "data source: api or demo")
	cmd.Flags().Float64Var(&gridSize, "grid-size", grid.DefaultSize, "cell size in degrees")
	return cmd
}
