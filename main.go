package main

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/cmd"
)

// init configures the initial logging level for composer.
//
// It sets logrus to InfoLevel by default, overridden later by flags like
// --debug or --log-level.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

func main() {
	cmd.Execute()
}
