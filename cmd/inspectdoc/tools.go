package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/inspectdoc/pkg/clientmatch"
	"github.com/gardar/inspectdoc/pkg/pdfinfo"
	"github.com/gardar/inspectdoc/pkg/record"
)

const mmPerPoint = 25.4 / 72

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <document.pdf>",
		Short: "Show page count, metadata and layers of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := pdfinfo.InspectFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Pages:   %d\n", info.Pages)
			fmt.Fprintf(w, "Size:    %.0f x %.0f mm\n", info.Width*mmPerPoint, info.Height*mmPerPoint)
			if info.Title != "" {
				fmt.Fprintf(w, "Title:   %s\n", info.Title)
			}
			if info.Author != "" {
				fmt.Fprintf(w, "Author:  %s\n", info.Author)
			}
			if info.Creator != "" {
				fmt.Fprintf(w, "Creator: %s\n", info.Creator)
			}
			if len(info.Layers) > 0 {
				fmt.Fprintf(w, "Layers:  %s\n", strings.Join(info.Layers, ", "))
			}
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "match <clients.yml> <query>",
		Short: "Suggest known clients for a name or phone number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var clients []clientmatch.Client
			if err := record.Load(args[0], &clients); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			matches := clientmatch.Suggest(clients, args[1], limit)
			if len(matches) == 0 {
				fmt.Fprintln(w, "no matching clients")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(w, "%.2f  %s", m.Score, m.Client.Name)
				if m.Client.Phone != "" {
					fmt.Fprintf(w, "  %s", m.Client.Phone)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum number of suggestions (0 for all)")
	return cmd
}
