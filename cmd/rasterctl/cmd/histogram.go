package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/wbrown/rasterkit"
	"github.com/wbrown/rasterkit/imageutil"
)

// histogramReport is the JSON form of a histogram.
type histogramReport struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Total  uint64   `json:"total"`
	Min    uint32   `json:"min"`
	Max    uint32   `json:"max"`
	Counts []uint32 `json:"counts"`
}

// NewHistogramCmd prints or charts the luminance histogram of an image.
func NewHistogramCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "print or chart the luminance histogram of an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			format, _ := cmd.Flags().GetString("format")
			chartPath, _ := cmd.Flags().GetString("chart")

			if input == "" && len(args) > 0 {
				input = args[0]
			}
			if input == "" {
				return fmt.Errorf("input path is required. Use --input flag or provide as argument")
			}

			r, err := imageutil.LoadImage(input)
			if err != nil {
				return err
			}
			h := newEngine(cmd).Histogram(r)

			if chartPath != "" {
				if err := imageutil.SaveHistogramChart(h, "Histogram", chartPath, imageutil.DefaultChartOptions()); err != nil {
					return err
				}
				slog.InfoContext(ctx, "saved histogram chart", "path", chartPath)
			}
			return writeHistogram(cmd.OutOrStdout(), r, h, format)
		},
	}

	pf := cmd.Flags()
	pf.StringP("input", "i", "", "Input image file")
	pf.StringP("format", "f", "text", "output format (text|json)")
	pf.String("chart", "", "Also render the histogram as a chart image")
	return cmd
}

func writeHistogram(w io.Writer, r *rasterkit.Raster, h rasterkit.Histogram, format string) error {
	lo, hi := h.MinMax()
	switch format {
	case "json":
		return json.NewEncoder(w).Encode(histogramReport{
			Width:  r.Width,
			Height: r.Height,
			Total:  h.Total(),
			Min:    lo,
			Max:    hi,
			Counts: h[:],
		})
	case "text":
		fmt.Fprintf(w, "size: %dx%d\n", r.Width, r.Height)
		fmt.Fprintf(w, "min: %d\nmax: %d\n", lo, hi)
		for level, n := range h {
			if n > 0 {
				fmt.Fprintf(w, "%3d %d\n", level, n)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (text|json)", format)
}
