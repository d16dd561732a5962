// main is the entry point for the mri CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/mri/cmd"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/internal/snapstore"
)

func main() {
	cmd.SetStoreManager(snapstore.Manager)
	defer snapstore.CloseStore()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		snapstore.CloseStore()
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
