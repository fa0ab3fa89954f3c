package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"uk.co.dudmesh.board/internal/boot"
	"uk.co.dudmesh.board/internal/model"
)

const MessagePrefix = "New message on Message Board:\n\n"

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// apiError is the body the bot API sends with a failed call.
type apiError struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// notifier posts new messages to a chat bot. Failures are logged and never
// returned to the request that triggered them.
type notifier struct {
	config boot.NotifierConfig
	client *resty.Client
	logger Logger
	wg     sync.WaitGroup
}

func New(config boot.NotifierConfig, logger Logger) *notifier {
	return &notifier{
		config: config,
		client: resty.New(),
		logger: logger,
	}
}

// Dispatch sends the notification on its own goroutine and returns at once.
func (n *notifier) Dispatch(text string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Errorf("notifier panic: %v", r)
			}
		}()

		ctx := context.Background()
		if n.config.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, n.config.Timeout)
			defer cancel()
		}

		if err := n.Notify(ctx, text); err != nil {
			n.logger.Errorf("sending notification: %v", err)
		}
	}()
}

// Wait blocks until every dispatched notification has finished.
func (n *notifier) Wait() {
	n.wg.Wait()
}

func (n *notifier) Notify(ctx context.Context, text string) error {
	if !n.config.Enabled() {
		n.logger.Infof("notifier disabled, skipping: bot token or chat id not configured")
		return nil
	}

	endpoint := strings.TrimRight(n.config.BaseURL, "/") + "/bot" + n.config.BotToken + "/sendMessage"
	res, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(&sendMessageRequest{
			ChatID: n.config.ChatID,
			Text:   MessagePrefix + text,
		}).
		SetError(&apiError{}).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("%w: posting to bot API: %w", model.ErrorNotifier, stripURL(err))
	}

	if !res.IsSuccess() {
		detail := strings.TrimSpace(res.String())
		if apiErr, ok := res.Error().(*apiError); ok && apiErr.Description != "" {
			detail = apiErr.Description
		}
		return fmt.Errorf("%w: bot API returned %d: %s", model.ErrorNotifier, res.StatusCode(), detail)
	}

	return nil
}

// stripURL drops the request URL from client errors; it carries the bot token.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
