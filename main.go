package main

import (
	"fmt"
	"os"

	"github.com/tatianab/slots/internal/tui"
)

func main() {
	if err := tui.Start(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
