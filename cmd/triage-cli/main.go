package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/mail"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/job-mail-triage/internal/adapters/intake"
	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run triages a single message against the (optionally preloaded) job store
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	cliIntake *intake.CliIntake,
	jobRepo core.JobRepository,
	suggester core.StageSuggester,
) error {
	defer logger.Sync()
	ctx := context.Background()

	// Preload tracked jobs so the matcher has something to match against
	if flags.JobsFile != "" {
		count, err := loadJobs(ctx, flags.JobsFile, jobRepo)
		if err != nil {
			logger.Fatal("Failed to load jobs file", zap.Error(err), zap.String("file", flags.JobsFile))
		}
		logger.Info("Loaded tracked jobs", zap.Int("count", count), zap.String("file", flags.JobsFile))
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}

	email := core.EmailRecord{
		ID:      messageID(msg),
		Subject: msg.Header.Get("Subject"),
		Sender:  msg.Header.Get("From"),
		Body:    string(bodyBytes),
		Date:    messageDate(msg),
	}

	result, err := cliIntake.ProcessEmail(ctx, email)
	if err != nil {
		logger.Fatal("Failed to triage email", zap.Error(err))
	}

	if flags.Apply {
		if err := intake.ApplyAction(ctx, jobRepo, result, logger); err != nil {
			logger.Fatal("Failed to apply action", zap.Error(err))
		}
		fmt.Printf("\nApplied action: %s\n", result.Action)
	}

	// Close any resources that need closing
	if closer, ok := suggester.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close stage suggester", zap.Error(err))
		}
	}

	return nil
}

// loadJobs reads a JSON array of job records into the repository
func loadJobs(ctx context.Context, path string, repo core.JobRepository) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var jobs []core.JobRecord
	if err := json.Unmarshal(data, &jobs); err != nil {
		return 0, fmt.Errorf("failed to parse jobs file: %w", err)
	}

	for i := range jobs {
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.NewString()
		}
		if err := repo.SaveJob(ctx, &jobs[i]); err != nil {
			return i, err
		}
	}
	return len(jobs), nil
}

func messageID(msg *mail.Message) string {
	if id := msg.Header.Get("Message-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}

func messageDate(msg *mail.Message) time.Time {
	if date, err := msg.Header.Date(); err == nil {
		return date
	}
	return time.Now()
}
