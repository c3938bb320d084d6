package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tatianab/slots/internal/config"
	"github.com/tatianab/slots/internal/tui"
)

func main() {
	writeConfig := flag.String("write-config", "", "write the effective configuration to this path and exit")
	flag.Parse()

	if *writeConfig != "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Save(*writeConfig); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *writeConfig)
		return
	}

	if err := tui.Start(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
