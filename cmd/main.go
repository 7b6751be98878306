package main

import (
	"os"

	"github.com/ZelenyMartin/quiz-server/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
