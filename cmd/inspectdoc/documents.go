package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gardar/inspectdoc/pkg/record"
	"github.com/gardar/inspectdoc/pkg/report"
	"github.com/gardar/inspectdoc/pkg/sheet"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		out       outputFlags
		style     string
		maxPhotos int
		reportID  string
	)
	cmd := &cobra.Command{
		Use:   "report <inspection.yml>",
		Short: "Render an inspection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var rec record.Inspection
			if err := record.Load(args[0], &rec); err != nil {
				return err
			}

			f := a.fetcher()
			resolved, res, err := f.ResolveInspection(ctx, &rec)
			if err != nil {
				return fmt.Errorf("error resolving photos: %w", err)
			}
			if res.Failed > 0 {
				a.log.Warn().Int("failed", res.Failed).Msg("some photos could not be fetched")
			}

			opts, err := a.cfg.ReportOptions(ctx, f)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("style") {
				if opts.Style, err = report.ParseStyle(style); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("max-photos") {
				opts.MaxPhotos = maxPhotos
			}
			opts.ReportID = reportID

			doc, err := report.Generate(ctx, resolved, opts)
			if err != nil {
				return err
			}
			path := out.path(doc.Filename)
			if err := out.write(path, doc.Data); err != nil {
				return err
			}
			a.log.Info().Str("file", path).Int("pages", doc.Pages).Int("photo_failures", doc.PhotoFailures).Msg("report written")

			if out.xlsx {
				data, err := sheet.Inspection(resolved)
				if err != nil {
					return err
				}
				if err := out.write(xlsxPath(path), data); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&style, "style", "", "Report style: standard, compact or detailed")
	cmd.Flags().IntVar(&maxPhotos, "max-photos", 0, "Inline photo limit (negative renders all)")
	cmd.Flags().StringVar(&reportID, "report-id", "", "Report ID (generated when empty)")
	return cmd
}

func newInvoiceCmd(a *app) *cobra.Command {
	var (
		out      outputFlags
		reportID string
	)
	cmd := &cobra.Command{
		Use:   "invoice <invoice.yml>",
		Short: "Render an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var inv record.Invoice
			if err := record.Load(args[0], &inv); err != nil {
				return err
			}
			opts, err := a.cfg.ReportOptions(ctx, a.fetcher())
			if err != nil {
				return err
			}
			opts.ReportID = reportID

			doc, err := report.Generate(ctx, &inv, opts)
			if err != nil {
				return err
			}
			path := out.path(doc.Filename)
			if err := out.write(path, doc.Data); err != nil {
				return err
			}
			a.log.Info().Str("file", path).Int("pages", doc.Pages).Msg("invoice written")

			if out.xlsx {
				data, err := sheet.Invoice(&inv, opts.Pricing)
				if err != nil {
					return err
				}
				if err := out.write(xlsxPath(path), data); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&reportID, "report-id", "", "Report ID (generated when empty)")
	return cmd
}
