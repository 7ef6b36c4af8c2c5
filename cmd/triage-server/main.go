package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/di"
	"github.com/mikey/job-mail-triage/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	emailIntake ports.EmailIntake,
	jobRepo core.JobRepository,
	suggester core.StageSuggester,
) error {
	defer logger.Sync()

	// Start the intake
	if err := emailIntake.Start(); err != nil {
		logger.Fatal("Failed to start email intake", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the intake
	if err := emailIntake.Stop(); err != nil {
		logger.Error("Failed to stop email intake", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := suggester.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close stage suggester", zap.Error(err))
		}
	}

	// Stop the job store if needed
	if stopper, ok := jobRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
