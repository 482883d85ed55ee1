package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/junaydb/octree-pointcloud-renderer/config"
	"github.com/junaydb/octree-pointcloud-renderer/device"
	"github.com/junaydb/octree-pointcloud-renderer/logging"
	"github.com/junaydb/octree-pointcloud-renderer/octree"
	"github.com/junaydb/octree-pointcloud-renderer/pointcloud"
)

// loadConfig reads the --config file, or the defaults, and applies any flags given on the command
// line on top.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(configFlag); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet(frameBudgetFlag) {
		cfg.Budgets.FrameBudget = c.Uint(frameBudgetFlag)
	}
	if c.IsSet(bufferBudgetFlag) {
		cfg.Budgets.BufferBudget = c.Uint(bufferBudgetFlag)
	}
	if c.IsSet(minPointsFlag) {
		cfg.Budgets.MinPointsPerNode = c.Uint(minPointsFlag)
	}
	if c.IsSet(pointsFlag) {
		cfg.Source.Points = c.Int(pointsFlag)
	}
	if c.IsSet(shapeFlag) {
		cfg.Source.Shape = c.String(shapeFlag)
	}
	if c.IsSet(sizeFlag) {
		cfg.Source.Size = c.Float64(sizeFlag)
	}
	if c.IsSet(seedFlag) {
		cfg.Source.Seed = c.Int64(seedFlag)
	}

	if err := cfg.Validate("flags"); err != nil {
		return cfg, errors.Wrap(err, "invalid settings")
	}
	return cfg, nil
}

// newLogger returns the command's logger and a function that closes any log file it writes to.
func newLogger(c *cli.Context) (logging.Logger, func() error) {
	var logger logging.Logger
	if c.Bool(debugFlag) {
		logger = logging.NewDebugLogger("pointlod")
	} else {
		logger = logging.NewBlankLogger("pointlod")
		logger.SetLevel(logging.INFO)
	}

	path := c.String(logFileFlag)
	if path == "" {
		return logger, func() error { return nil }
	}
	appender, closer := logging.NewFileAppender(path, 100)
	logger.AddAppender(appender)
	return logger, closer.Close
}

// renderer is a generated cloud, its octree and the device the octree was streamed to.
type renderer struct {
	cfg    config.Config
	cloud  *pointcloud.Cloud
	tree   *octree.Octree
	dev    *device.Memory
	logger logging.Logger
}

func newRenderer(ctx context.Context, cfg config.Config, logger logging.Logger) (*renderer, error) {
	cloud := cfg.Source.Cloud()
	logger.Debugw("generated cloud", "shape", cfg.Source.Shape, "points", cloud.Len(), "bounds", cloud.Bounds())

	r := &renderer{
		cfg:    cfg,
		cloud:  cloud,
		tree:   octree.Build(cloud, cfg.Budgets.Params(), logger.Sublogger("octree")),
		dev:    device.NewMemory(),
		logger: logger,
	}
	if err := r.tree.Stream(ctx, r.dev); err != nil {
		return nil, multierr.Combine(err, r.close(ctx))
	}
	return r, nil
}

func (r *renderer) close(ctx context.Context) error {
	return r.tree.Release(ctx, r.dev)
}
