package metrics

import (
	"github.com/aybabtme/uniplot/histogram"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/junaydb/octree-pointcloud-renderer/octree"
)

// Summary describes how an octree's points are spread over its nodes.
type Summary struct {
	Nodes        int
	Points       int
	MeanPoints   float64
	MedianPoints float64
	P95Points    float64
	MaxPoints    int
	// NodesPerDepth[d] and PointsPerDepth[d] count the nodes and points at depth d.
	NodesPerDepth  []int
	PointsPerDepth []int
}

// Summarize computes the occupancy summary of o. Counts include nodes already streamed.
func Summarize(o *octree.Octree) (Summary, error) {
	var infos []octree.NodeInfo
	o.Walk(func(info octree.NodeInfo) bool {
		infos = append(infos, info)
		return true
	})

	counts := lo.Map(infos, func(info octree.NodeInfo, _ int) float64 {
		return float64(info.PointCount)
	})
	mean, err := stats.Mean(counts)
	if err != nil {
		return Summary{}, errors.Wrap(err, "mean points per node")
	}
	median, err := stats.Median(counts)
	if err != nil {
		return Summary{}, errors.Wrap(err, "median points per node")
	}
	p95, err := stats.Percentile(counts, 95)
	if err != nil {
		return Summary{}, errors.Wrap(err, "95th percentile points per node")
	}

	byDepth := lo.CountValuesBy(infos, func(info octree.NodeInfo) uint { return info.Depth })
	perDepth := make([]int, o.MaxDepth()+1)
	for depth, n := range byDepth {
		perDepth[depth] = n
	}
	pointsPerDepth := make([]int, o.MaxDepth()+1)
	for _, info := range infos {
		pointsPerDepth[info.Depth] += info.PointCount
	}

	pointCounts := lo.Map(infos, func(info octree.NodeInfo, _ int) int { return info.PointCount })
	return Summary{
		Nodes:          len(infos),
		Points:         lo.Sum(pointCounts),
		MeanPoints:     mean,
		MedianPoints:   median,
		P95Points:      p95,
		MaxPoints:      lo.Max(pointCounts),
		NodesPerDepth:  perDepth,
		PointsPerDepth: pointsPerDepth,
	}, nil
}

// OccupancyHistogram buckets the nodes of o by point count. It has no buckets when every node holds
// the same number of points.
func OccupancyHistogram(o *octree.Octree, bins int) histogram.Histogram {
	var counts []float64
	o.Walk(func(info octree.NodeInfo) bool {
		counts = append(counts, float64(info.PointCount))
		return true
	})
	if len(lo.Uniq(counts)) < 2 {
		return histogram.Histogram{}
	}
	return histogram.Hist(bins, counts)
}
