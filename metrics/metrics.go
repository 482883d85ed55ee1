// Package metrics exports octree statistics to Prometheus and summarises how points are spread
// across nodes.
package metrics

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/junaydb/octree-pointcloud-renderer/octree"
)

const namespace = "pointlod"

// Recorder holds the octree gauges and frame counters of one renderer.
type Recorder struct {
	clock clock.Clock

	nodes          prometheus.Gauge
	maxDepth       prometheus.Gauge
	nodesStreamed  prometheus.Gauge
	pointsStreamed prometheus.Gauge

	frames         prometheus.Counter
	nodesDrawn     prometheus.Gauge
	pointsDrawn    prometheus.Gauge
	pointsPerFrame prometheus.Histogram
	lastFrameTime  prometheus.Gauge
	frameTime      prometheus.Histogram
}

// NewRecorder creates the renderer's metrics and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	return NewRecorderWithClock(reg, clock.New())
}

// NewRecorderWithClock is NewRecorder with frame times measured by clk.
func NewRecorderWithClock(reg prometheus.Registerer, clk clock.Clock) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		clock: clk,
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "octree_nodes",
			Help:      "The number of nodes in the octree, root included.",
		}),
		maxDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "octree_max_depth",
			Help:      "The depth of the deepest node.",
		}),
		nodesStreamed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "octree_nodes_streamed",
			Help:      "The number of nodes uploaded to the device.",
		}),
		pointsStreamed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "octree_points_streamed",
			Help:      "The number of points uploaded to the device.",
		}),
		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "The total number of frames drawn.",
		}),
		nodesDrawn: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_nodes_drawn",
			Help:      "The number of non-root nodes drawn in the last frame.",
		}),
		pointsDrawn: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_points_drawn",
			Help:      "The number of non-root points drawn in the last frame.",
		}),
		pointsPerFrame: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_points",
			Help:      "The distribution of non-root points drawn per frame.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
		}),
		lastFrameTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_last_seconds",
			Help:      "How long the last frame took to select and draw.",
		}),
		frameTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_seconds",
			Help:      "The distribution of frame selection and draw times.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
}

// TimeFrame runs draw and records how long it took, whether or not it failed.
func (r *Recorder) TimeFrame(draw func() error) (time.Duration, error) {
	start := r.clock.Now()
	err := draw()
	elapsed := r.clock.Since(start)
	r.lastFrameTime.Set(elapsed.Seconds())
	r.frameTime.Observe(elapsed.Seconds())
	return elapsed, err
}

// ObserveStream records the shape of a built octree and what was streamed from it.
func (r *Recorder) ObserveStream(s octree.Stats) {
	r.nodes.Set(float64(s.TotalNodes))
	r.maxDepth.Set(float64(s.MaxDepth))
	r.nodesStreamed.Set(float64(s.NodesStreamed))
	r.pointsStreamed.Set(float64(s.PointsStreamed))
}

// ObserveFrame records one drawn frame.
func (r *Recorder) ObserveFrame(s octree.Stats) {
	r.frames.Inc()
	r.nodesDrawn.Set(float64(s.NodesDrawn))
	r.pointsDrawn.Set(float64(s.PointsDrawn))
	r.pointsPerFrame.Observe(float64(s.PointsDrawn))
}
