package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jengzang/smartcity-backend-go/internal/apiclient"
	"github.com/jengzang/smartcity-backend-go/internal/models"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		photo, text, category, lang string
		latStr, lngStr              string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit a complaint with a photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if photo == "" {
				return fmt.Errorf("--photo is required")
			}
			lat, lng, err := parseCoords(latStr, lngStr)
			if err != nil {
				return err
			}

			f, err := os.Open(photo)
			if err != nil {
				return fmt.Errorf("open photo: %w", err)
			}
			defer f.Close()

			c, err := a.client().CreateComplaint(cmd.Context(), apiclient.CreateRequest{
				Photo:      f,
				Filename:   filepath.Base(photo),
				Text:       text,
				UICategory: category,
				Lat:        lat,
				Lng:        lng,
				Lang:       lang,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&photo, "photo", "", "path to the photo")
	fl.StringVar(&text, "text", "", "description")
	fl.StringVar(&category, "category", "", "category picked by the citizen")
	fl.StringVar(&latStr, "lat", "", "latitude")
	fl.StringVar(&lngStr, "lng", "", "longitude")
	fl.StringVar(&lang, "lang", "ru", "text language (ru, kk, en)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List complaints, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.client().ListComplaints(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), cs)
			}
			return printComplaints(cmd, cs)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func printComplaints(cmd *cobra.Command, cs []models.Complaint) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tPRIORITY\tCATEGORY\tLAT\tLNG\tDEPARTMENT")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %.3f\t%s\t%s\t%s\t%s\n",
			c.ID,
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
			c.Status,
			orDash(c.PriorityLevel), c.PriorityScore,
			short(orDash(c.Category()), 28),
			fmtCoord(c.Lat), fmtCoord(c.Lng),
			short(orDash(c.Department), 32),
		)
	}
	return tw.Flush()
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <NEW|IN_PROGRESS|DONE|REJECTED>",
		Short: "Change a complaint's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := strings.ToUpper(strings.TrimSpace(args[1]))
			if !models.ValidStatus(status) {
				return fmt.Errorf("invalid status %q", args[1])
			}
			c, err := a.client().PatchComplaint(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
}
