package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/junaydb/octree-pointcloud-renderer/metrics"
)

// bytesPerPoint is the device footprint of one point: three float32 coordinates and three colour
// bytes.
const bytesPerPoint = 3*4 + 3

// BuildAction builds and streams the configured cloud and prints the octree's shape.
func BuildAction(c *cli.Context) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(c)
	defer func() {
		err = multierr.Combine(err, closeLog())
	}()
	r, err := newRenderer(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, r.close(c.Context))
	}()

	summary, err := metrics.Summarize(r.tree)
	if err != nil {
		return err
	}
	printSummary(c.App.Writer, r, summary)
	printf(c.App.Writer, "%s", depthTable(summary))

	if bins := c.Int(histogramFlag); bins > 0 {
		hist := metrics.OccupancyHistogram(r.tree, bins)
		if len(hist.Buckets) == 0 {
			printf(c.App.Writer, "every node holds %s points", humanize.Comma(int64(summary.MaxPoints)))
			return nil
		}
		printf(c.App.Writer, "points per node:")
		if err := histogram.Fprint(c.App.Writer, hist, histogram.Linear(40)); err != nil {
			return errors.Wrap(err, "printing histogram")
		}
	}
	return nil
}

// depthTable renders the per-depth breakdown of s.
func depthTable(s metrics.Summary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Depth", "Nodes", "Points", "Share"})
	for depth, nodes := range s.NodesPerDepth {
		share := 0.0
		if s.Points > 0 {
			share = 100 * float64(s.PointsPerDepth[depth]) / float64(s.Points)
		}
		t.AppendRow(table.Row{
			depth,
			humanize.Comma(int64(nodes)),
			humanize.Comma(int64(s.PointsPerDepth[depth])),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return t.Render()
}

func printSummary(w io.Writer, r *renderer, s metrics.Summary) {
	stats := r.tree.Stats()
	params := r.tree.Params()

	printf(w, "cloud: %s points in %v", humanize.Comma(int64(r.cloud.Len())), r.cloud.Bounds())
	printf(w, "octree: %s nodes, max depth %d, min %s points per node",
		humanize.Comma(int64(stats.TotalNodes)), stats.MaxDepth, humanize.Comma(int64(params.MinPointsPerNode)))
	printf(w, "streamed: %s nodes, %s points (%s), buffer budget %s",
		humanize.Comma(int64(stats.NodesStreamed)),
		humanize.Comma(int64(stats.PointsStreamed)),
		humanize.Bytes(uint64(stats.PointsStreamed)*bytesPerPoint),
		humanize.Comma(int64(params.BufferBudget)))
	printf(w, "points per node: mean %.1f, median %.1f, p95 %.1f, max %s",
		s.MeanPoints, s.MedianPoints, s.P95Points, humanize.Comma(int64(s.MaxPoints)))
	printf(w, "nodes per depth: %s", strings.Join(lo.Map(s.NodesPerDepth, func(n, _ int) string {
		return humanize.Comma(int64(n))
	}), " "))
}
