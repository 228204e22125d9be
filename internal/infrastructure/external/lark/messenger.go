package lark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"
)

// Receive id types accepted by the im/v1 create message API
const (
	ReceiveIDChat  = "chat_id"
	ReceiveIDOpen  = "open_id"
	ReceiveIDEmail = "email"
)

// Config holds Lark app credentials
type Config struct {
	AppID     string
	AppSecret string
	// ReceiveIDType defaults to ReceiveIDChat
	ReceiveIDType string
}

// messageCreator is the slice of the SDK's im/v1 message service we call
type messageCreator interface {
	Create(ctx context.Context, req *larkim.CreateMessageReq, options ...larkcore.RequestOptionFunc) (*larkim.CreateMessageResp, error)
}

// Messenger sends plain text messages through the Lark Open Platform
type Messenger struct {
	messages      messageCreator
	receiveIDType string
	logger        *zap.Logger
}

// NewMessenger creates a Messenger backed by a token-caching SDK client
func NewMessenger(cfg Config, logger *zap.Logger) (*Messenger, error) {
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, errors.New("lark app_id and app_secret are required")
	}

	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)

	return newMessenger(client.Im.Message, cfg.ReceiveIDType, logger), nil
}

func newMessenger(messages messageCreator, receiveIDType string, logger *zap.Logger) *Messenger {
	if receiveIDType == "" {
		receiveIDType = ReceiveIDChat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messenger{
		messages:      messages,
		receiveIDType: receiveIDType,
		logger:        logger,
	}
}

// SendText posts text to receiveID and returns the Lark message id
func (m *Messenger) SendText(ctx context.Context, receiveID, text string) (string, error) {
	if receiveID == "" {
		return "", errors.New("receive id cannot be empty")
	}
	if text == "" {
		return "", errors.New("message text cannot be empty")
	}

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to encode message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(m.receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(larkim.MsgTypeText).
			Content(string(content)).
			Build()).
		Build()

	resp, err := m.messages.Create(ctx, req)
	if err != nil {
		m.logger.Error("Failed to send message",
			zap.String("receive_id", receiveID),
			zap.Error(err))
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		m.logger.Error("API returned failure",
			zap.String("receive_id", receiveID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return "", fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}

	m.logger.Info("Message sent successfully",
		zap.String("message_id", messageID),
		zap.String("receive_id", receiveID))

	return messageID, nil
}
