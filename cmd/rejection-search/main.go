// Command rejection-search looks for seeds whose VDAF seed stream produces
// an out-of-range field element.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
