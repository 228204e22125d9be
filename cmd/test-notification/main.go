package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	flag "github.com/spf13/pflag"

	"github.com/garyjia/benefit-reimbursement/internal/application/service"
	"github.com/garyjia/benefit-reimbursement/internal/config"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/external/lark"
	"github.com/garyjia/benefit-reimbursement/internal/presenter"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

// Sends one sample pending-review message to the configured Lark chat so the
// bot credentials and chat membership can be checked without a submission.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	chatID := flag.String("chat", "", "chat id to send to (defaults to lark.review_chat_id)")
	flag.Parse()

	fmt.Println("=== Lark Review Notification Test ===")

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	path := *configPath
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	receiveID := *chatID
	if receiveID == "" {
		receiveID = cfg.Lark.ReviewChatID
	}
	if receiveID == "" {
		log.Fatal("No chat id: pass --chat or set lark.review_chat_id")
	}

	logger, err := utils.NewCLILogger(true)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	messenger, err := lark.NewMessenger(cfg.LarkClientConfig(), logger)
	if err != nil {
		log.Fatalf("Failed to create messenger: %v", err)
	}

	amount := decimal.RequireFromString("42.50")
	sample := entity.PendingReview{
		OutcomeDetails: entity.OutcomeDetails{
			RequestID:    "test-notification",
			EmployeeName: "Test Employee",
			EmployeeCode: "TEST",
			Amount:       &amount,
			Currency:     entity.DefaultCurrency,
			SubmittedAt:  time.Now(),
		},
	}
	text := service.ReviewMessage(presenter.New().Present(sample))

	fmt.Printf("Sending to %s:\n%s\n\n", receiveID, text)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	messageID, err := messenger.SendText(ctx, receiveID, text)
	if err != nil {
		log.Fatalf("✗ Failed to send message: %v", err)
	}
	fmt.Printf("✓ Message sent! message_id: %s\n", messageID)
}
