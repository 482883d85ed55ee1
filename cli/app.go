// Package cli contains the pointlod command line tool: it builds level of detail octrees over
// synthetic point clouds and replays camera flights against an in-memory device.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag       = "config"
	debugFlag        = "debug"
	logFileFlag      = "log-file"
	frameBudgetFlag  = "frame-budget"
	bufferBudgetFlag = "buffer-budget"
	minPointsFlag    = "min-points"
	pointsFlag       = "points"
	shapeFlag        = "shape"
	sizeFlag         = "size"
	seedFlag         = "seed"

	histogramFlag = "histogram"

	framesFlag   = "frames"
	fromFlag     = "from"
	toFlag       = "to"
	levelFlag    = "level"
	noOctreeFlag = "no-octree"
	metricsFlag  = "metrics"
)

// cloudFlags override the budgets and source of the loaded configuration.
var cloudFlags = []cli.Flag{
	&cli.UintFlag{
		Name:  frameBudgetFlag,
		Usage: "maximum non-root points drawn per frame",
	},
	&cli.UintFlag{
		Name:  bufferBudgetFlag,
		Usage: "maximum points uploaded to the device",
	},
	&cli.UintFlag{
		Name:  minPointsFlag,
		Usage: "points a node holds before its overflow is pushed to its children",
	},
	&cli.IntFlag{
		Name:  pointsFlag,
		Usage: "number of points to generate",
	},
	&cli.StringFlag{
		Name:  shapeFlag,
		Usage: "shape of the generated cloud: cube or sphere",
	},
	&cli.Float64Flag{
		Name:  sizeFlag,
		Usage: "cube side or sphere radius of the generated cloud",
	},
	&cli.Int64Flag{
		Name:  seedFlag,
		Usage: "random seed of the generated cloud",
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "pointlod",
		Usage:           "build and fly through level of detail point cloud octrees",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  logFileFlag,
				Usage: "also write JSON logs to `FILE`, rotated at 100MB",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "build and stream an octree, then print its statistics",
				Flags: append(append([]cli.Flag{}, cloudFlags...),
					&cli.IntFlag{
						Name:  histogramFlag,
						Usage: "also print a histogram of points per node with this many bins",
					},
				),
				Action: BuildAction,
			},
			{
				Name:  "fly",
				Usage: "move the camera toward the cloud and report what each frame draws",
				Flags: append(append([]cli.Flag{}, cloudFlags...),
					&cli.IntFlag{
						Name:  framesFlag,
						Value: 60,
						Usage: "number of frames to draw",
					},
					&cli.Float64Flag{
						Name:  fromFlag,
						Value: 600,
						Usage: "camera distance from the cloud centre on the first frame",
					},
					&cli.Float64Flag{
						Name:  toFlag,
						Value: 50,
						Usage: "camera distance from the cloud centre on the last frame",
					},
					&cli.IntFlag{
						Name:  levelFlag,
						Value: -1,
						Usage: "draw only the nodes at this depth instead of selecting by screen size",
					},
					&cli.BoolFlag{
						Name:  noOctreeFlag,
						Usage: "upload and draw the whole cloud every frame",
					},
					&cli.BoolFlag{
						Name:  metricsFlag,
						Usage: "print the collected metrics in Prometheus text format",
					},
				),
				Action: FlyAction,
			},
		},
	}
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
