// Package main is the orientation command itself.
package main

import (
	"os"

	"go.viam.com/orientation/cli"
	"go.viam.com/orientation/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Fatal(err)
	}
}
