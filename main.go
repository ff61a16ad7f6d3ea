package main

import (
	"os"

	"github.com/shorthills-ai/resume-retailor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
