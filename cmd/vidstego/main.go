package main

import (
	"os"

	vscli "github.com/opd-ai/vidstego/internal/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	app := vscli.NewApp(nil)
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("vidstego failed")
		os.Exit(1)
	}
}
