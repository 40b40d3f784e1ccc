package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/dynarec/codegen"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

func newStatsCmd(o *options) *cobra.Command {
	var html string
	cmd := &cobra.Command{
		Use:   "stats <listing.json>...",
		Short: "Compile listings and report native bytes per uop kind",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, span := tracer.Start(cmd.Context(), "stats")
			defer span.End()

			c, err := newCompiler(o.cfg)
			if err != nil {
				return err
			}
			for _, path := range args {
				l, err := loadListing(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if _, _, err := c.compile(l, -1); err != nil {
					return err
				}
			}
			span.SetAttributes(
				attribute.Int("blocks", c.stats.Blocks),
				attribute.Int("uops", c.stats.Uops),
				attribute.Int("bytes", c.stats.Bytes),
			)
			fmt.Fprint(cmd.OutOrStdout(), c.stats.String())
			if html == "" {
				return nil
			}
			return writeChart(html, statsChart(&c.stats))
		},
	}
	cmd.Flags().StringVar(&html, "html", "", "also write a bar chart to this HTML file")
	return cmd
}

func statsChart(st *codegen.Stats) *charts.Bar {
	rows := st.Rows()
	names := make([]string, len(rows))
	total := make([]opts.BarData, len(rows))
	perUop := make([]opts.BarData, len(rows))
	for i, r := range rows {
		names[i] = r.Op.String()
		total[i] = opts.BarData{Value: r.Bytes}
		perUop[i] = opts.BarData{Value: r.Bytes / r.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Native code per uop kind",
			Subtitle: fmt.Sprintf("%d blocks, %d uops, %d bytes", st.Blocks, st.Uops, st.Bytes),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("bytes", total).
		AddSeries("bytes per uop", perUop)
	return bar
}

func writeChart(path string, bar *charts.Bar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	page := components.NewPage()
	page.AddCharts(bar)
	return page.Render(f)
}
