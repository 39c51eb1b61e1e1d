package main

import (
	"os"

	"github.com/jhoicas/rechnungs-assistent/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
