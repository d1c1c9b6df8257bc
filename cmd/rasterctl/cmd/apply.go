package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wbrown/rasterkit"
	"github.com/wbrown/rasterkit/imageutil"
	"github.com/wbrown/rasterkit/internal/recipe"
)

// NewApplyCmd runs a pipeline of steps over one image.
func NewApplyCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "apply transform steps to an image",
		Long: `Loads --input, applies the recipe steps followed by each --step in order,
and saves the processed image to --output.

Steps: grayscale, negative, mirror-vertical, mirror-horizontal, rotate-left,
rotate-right, zoom-in, equalize, brightness=D, contrast=K, quantize=N,
zoom-out=FX[,FY], resize=W,H[,area|linear|nearest], convolve=NAME,
kernel=k00,...,k22[,bias], match (needs --target).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			specs, _ := cmd.Flags().GetStringArray("step")
			recipePath, _ := cmd.Flags().GetString("recipe")
			targetPath, _ := cmd.Flags().GetString("target")
			chartPath, _ := cmd.Flags().GetString("histogram")

			var steps []rasterkit.Step
			if recipePath != "" {
				loaded, err := recipe.Load(recipePath)
				if err != nil {
					return err
				}
				steps = append(steps, loaded...)
			}
			parsed, err := parseSteps(specs, targetPath)
			if err != nil {
				return err
			}
			steps = append(steps, parsed...)
			if len(steps) == 0 {
				return fmt.Errorf("no steps given; use --step or --recipe")
			}

			src, err := imageutil.LoadImage(input)
			if err != nil {
				return err
			}
			session := rasterkit.NewSession(src, rasterkit.WithEngine(newEngine(cmd)))
			if err := session.ApplyAll(steps); err != nil {
				return err
			}
			if err := imageutil.SaveImage(session.Processed(), output); err != nil {
				return err
			}
			slog.InfoContext(ctx, "saved processed image",
				"input", input, "output", output,
				"steps", len(steps), "size", session.Processed().String(),
				"workers", session.Engine().Workers())

			if chartPath != "" {
				return saveCharts(ctx, session, chartPath)
			}
			return nil
		},
	}

	pf := cmd.Flags()
	pf.StringP("input", "i", "", "Input image file")
	pf.StringP("output", "o", "", "Output image file (format from extension)")
	pf.StringArrayP("step", "s", nil, "Step to apply, repeatable")
	pf.StringP("recipe", "r", "", "YAML recipe of steps, applied before --step")
	pf.String("target", "", "Target image for the match step")
	pf.String("histogram", "", "Write a histogram chart of the result to this file")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func parseSteps(specs []string, targetPath string) ([]rasterkit.Step, error) {
	var target *rasterkit.Raster
	steps := make([]rasterkit.Step, 0, len(specs))
	for _, spec := range specs {
		if strings.EqualFold(strings.TrimSpace(spec), "match") {
			if targetPath == "" {
				return nil, fmt.Errorf("step match needs --target")
			}
			if target == nil {
				var err error
				if target, err = imageutil.LoadImage(targetPath); err != nil {
					return nil, err
				}
			}
			steps = append(steps, rasterkit.MatchStep(target))
			continue
		}
		step, err := rasterkit.ParseStep(spec)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// saveCharts writes the processed histogram to path. After an equalize
// step the histogram from before equalization is written next to it
// with an "-original" suffix.
func saveCharts(ctx context.Context, session *rasterkit.Session, path string) error {
	opts := imageutil.DefaultChartOptions()
	if eq := session.LastEqualize(); eq != nil {
		ext := filepath.Ext(path)
		before := strings.TrimSuffix(path, ext) + "-original" + ext
		if err := imageutil.SaveHistogramChart(eq.Before, "Original histogram", before, opts); err != nil {
			return err
		}
		slog.InfoContext(ctx, "saved histogram chart", "path", before)
		if err := imageutil.SaveHistogramChart(eq.After, "New histogram", path, opts); err != nil {
			return err
		}
	} else if err := imageutil.SaveHistogramChart(session.Histogram(), "Histogram", path, opts); err != nil {
		return err
	}
	slog.InfoContext(ctx, "saved histogram chart", "path", path)
	return nil
}
