package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/jengzang/smartcity-backend-go/internal/demostore"
	"github.com/jengzang/smartcity-backend-go/internal/logger"
)

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Work with the offline demo dataset",
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Write three sample reports if the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			seeded, err := st.SeedDemoDataIfEmpty()
			if err != nil {
				return err
			}
			logger.For("demo").Debug("seed", "path", st.Path(), "seeded", seeded)
			if seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", st.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already has data\n", st.Path())
			}
			return nil
		},
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List local reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			reports := st.Load()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), reports)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tCATEGORY\tLAT\tLNG\tDESCRIPTION")
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Created().Local().Format("2006-01-02 15:04"), r.Status,
					orDash(r.Category), fmtRaw(r.Lat), fmtRaw(r.Lng), short(r.Description, 40))
			}
			return tw.Flush()
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	cmd.AddCommand(seed, list, newDemoAddCmd(a), newDemoStatusCmd(a))
	return cmd
}

func newDemoAddCmd(a *app) *cobra.Command {
	var (
		r              demostore.Report
		photo          string
		latStr, lngStr string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a local report",
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parseCoords(latStr, lngStr)
			if err != nil {
				return err
			}
			if lat != nil {
				r.Lat, r.Lng = *lat, *lng
			}

			if photo != "" {
				data, err := os.ReadFile(photo)
				if err != nil {
					return fmt.Errorf("read photo: %w", err)
				}
				mt := mimetype.Detect(data)
				if !strings.HasPrefix(mt.String(), "image/") {
					return fmt.Errorf("%s is not an image (%s)", photo, mt.String())
				}
				r.PhotoDataURL = "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
			}

			st, err := a.store()
			if err != nil {
				return err
			}
			reports, err := st.AddReport(r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%d reports)\n", reports[0].ID, len(reports))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&photo, "photo", "", "photo to embed as a data URL")
	fl.StringVar(&r.Category, "category", "", "category")
	fl.StringVar(&r.AICategory, "ai-category", "", "suggested category")
	fl.StringVar(&r.Description, "text", "", "description")
	fl.StringVar(&r.AddressHint, "address", "", "address hint")
	fl.StringVar(&r.Department, "department", "", "responsible department")
	fl.StringVar(&latStr, "lat", "", "latitude")
	fl.StringVar(&lngStr, "lng", "", "longitude")
	return cmd
}

func newDemoStatusCmd(a *app) *cobra.Command {
	labels := []string{demostore.StatusNew, demostore.StatusInProgress, demostore.StatusDone, demostore.StatusRejected}

	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a local report's status (" + strings.Join(labels, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := args[1]
			valid := false
			for _, l := range labels {
				if l == status {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("invalid status %q, want one of %s", status, strings.Join(labels, ", "))
			}

			st, err := a.store()
			if err != nil {
				return err
			}
			before := st.Load()
			found := false
			for _, r := range before {
				if r.ID == args[0] {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("report %s not found", args[0])
			}
			if _, err := st.UpdateReportStatus(args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], status)
			return nil
		},
	}
}
