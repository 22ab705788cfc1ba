package main

import (
	"errors"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

func main() {
	logger := logging.NewJSON(logging.LevelWarn).Named("squadctl")
	defer func() { _ = logger.Sync() }()

	if err := newCLIApp(logger).Run(os.Args); err != nil {
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			logger.Error("squadctl failed", "error", err)
		}
		_ = logger.Sync()
		os.Exit(code)
	}
}
