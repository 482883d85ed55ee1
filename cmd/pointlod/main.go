// Package main is the pointlod command itself.
package main

import (
	"os"

	"github.com/junaydb/octree-pointcloud-renderer/cli"
	"github.com/junaydb/octree-pointcloud-renderer/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.NewLogger("pointlod").Error(err)
		os.Exit(1)
	}
}
