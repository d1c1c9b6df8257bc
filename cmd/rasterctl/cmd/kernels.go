package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wbrown/rasterkit"
)

// NewKernelsCmd lists the built-in convolution kernels.
func NewKernelsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernels",
		Short: "list built-in convolution kernels",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, n := range rasterkit.NamedKernels() {
				fmt.Fprintf(w, "%-10s bias=%-5t %s\n", n, n.RequiresBias(), formatKernel(n.Kernel()))
			}
		},
	}
	return cmd
}

func formatKernel(k rasterkit.Kernel) string {
	rows := make([]string, 0, 3)
	for _, row := range k {
		vals := make([]string, 0, 3)
		for _, v := range row {
			vals = append(vals, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rows = append(rows, strings.Join(vals, " "))
	}
	return "[" + strings.Join(rows, "; ") + "]"
}
