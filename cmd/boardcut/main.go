// boardcut places rectangular pieces on square boards at minimum cost.
//
// Build:
//
//	go build -o boardcut ./cmd/boardcut
//
// Usage:
//
//	boardcut solve pieces.txt --strategy bnb --pdf plan.pdf
//	boardcut compare pieces.csv --chart compare.html
//	boardcut serve --addr :8080
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := newRootCmd(log).Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
