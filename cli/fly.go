package cli

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/junaydb/octree-pointcloud-renderer/device"
	"github.com/junaydb/octree-pointcloud-renderer/metrics"
	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
	"github.com/junaydb/octree-pointcloud-renderer/view"
)

// flight moves the camera along +z toward the centre of a fitted cloud.
type flight struct {
	frames   int
	from, to float64
}

func (f flight) distance(frame int) float64 {
	if f.frames < 2 {
		return f.from
	}
	return f.from + (f.to-f.from)*float64(frame)/float64(f.frames-1)
}

func (f flight) camera(frame int) view.Camera {
	cam := view.NewCamera()
	cam.Position = r3.Vector{Z: f.distance(frame)}
	return cam
}

// FlyAction draws a sequence of frames with the camera moving toward the cloud, printing the
// points each frame drew.
func FlyAction(c *cli.Context) (err error) {
	f := flight{frames: c.Int(framesFlag), from: c.Float64(fromFlag), to: c.Float64(toFlag)}
	if f.frames < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", framesFlag, f.frames)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(c)
	defer func() {
		err = multierr.Combine(err, closeLog())
	}()
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	if c.Bool(noOctreeFlag) {
		if err := flyWithoutOctree(c.Context, c.App.Writer, cfg.Source.Cloud(), f); err != nil {
			return err
		}
		return printMetrics(c, reg)
	}

	r, err := newRenderer(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, r.close(c.Context))
	}()
	recorder.ObserveStream(r.tree.Stats())

	model := view.FitModelMatrix(r.cloud.Bounds())
	params := cfg.View.Params()
	level := c.Int(levelFlag)
	for i := 0; i < f.frames; i++ {
		r.dev.Reset()
		elapsed, err := recorder.TimeFrame(func() error {
			if level >= 0 {
				return r.tree.DrawLevel(c.Context, r.dev, uint(level))
			}
			return r.tree.SelectAndDraw(c.Context, r.dev, view.NewFrame(f.camera(i), model, params))
		})
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		recorder.ObserveFrame(r.tree.Stats())
		printFrame(c.App.Writer, i, f.distance(i), r.dev.Draws())
		logger.Debugw("frame drawn", "frame", i, "duration", elapsed)
	}
	return printMetrics(c, reg)
}

// flyWithoutOctree uploads the whole cloud as one buffer and draws all of it every frame.
func flyWithoutOctree(ctx context.Context, w io.Writer, cloud *pointcloud.Cloud, f flight) error {
	positions := make([]float32, 0, 3*cloud.Len())
	colours := make([]uint8, 0, 3*cloud.Len())
	cloud.Iterate(func(_ int, p pointcloud.Point) bool {
		positions = append(positions, float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z))
		colours = append(colours, p.Colour.R, p.Colour.G, p.Colour.B)
		return true
	})

	dev := device.NewMemory()
	handle, err := dev.AllocateAndUpload(ctx, positions, colours, cloud.Len())
	if err != nil {
		return errors.Wrap(err, "uploading cloud")
	}
	for i := 0; i < f.frames; i++ {
		dev.Reset()
		if err := dev.SubmitDraw(ctx, handle, cloud.Len()); err != nil {
			return multierr.Combine(errors.Wrapf(err, "frame %d", i), dev.Release(ctx, handle))
		}
		printFrame(w, i, f.distance(i), dev.Draws())
	}
	return dev.Release(ctx, handle)
}

func printFrame(w io.Writer, frame int, distance float64, draws []device.Draw) {
	points := lo.SumBy(draws, func(d device.Draw) int { return d.Count })
	printf(w, "frame %d: distance %.1f, %d buffers, %s points",
		frame, distance, len(draws), humanize.Comma(int64(points)))
}

func printMetrics(c *cli.Context, reg *prometheus.Registry) error {
	if !c.Bool(metricsFlag) {
		return nil
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(c.App.Writer, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
