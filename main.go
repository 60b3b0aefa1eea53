package main

import (
	"log"
	"os"
	"strings"

	"github.com/drengskapur/treegen/cmd"
	"github.com/drengskapur/treegen/pkg/logging"
	"github.com/drengskapur/treegen/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if _, err := logging.Setup(false, version.AppName, version.Version); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// The root command may rebuild the global logger once --debug is known.
	if err := cmd.Execute(); err != nil {
		logging.Logger.Fatal("treegen execution failed", zap.Error(err))
	}

	// Check if stderr is a terminal or a regular file before attempting to sync.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logging.Logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
