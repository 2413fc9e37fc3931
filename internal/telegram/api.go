package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

type botAPISender struct {
	api  *tgbotapi.BotAPI
	http *http.Client
}

func (s botAPISender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return s.api.Send(c)
}

func (s botAPISender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return s.api.Request(c)
}

// Download fetches a file previously sent to the bot.
func (s botAPISender) Download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := s.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(s.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return content, nil
}
