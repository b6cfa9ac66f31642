// Package telegram delivers video uploads to a single chat via the Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Sender uploads videos to one configured Telegram chat.
// Each upload is a single multipart request; there is no automatic retry.
type Sender struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewSender registers bot token and chat identifier.
func NewSender(botToken, chatID string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Sender{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: timeout},
	}
}

// apiResponse is the envelope Telegram wraps every reply in.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendVideo uploads the file at path with the given caption.
// A non-2xx status or an "ok": false body fails the send.
func (s *Sender) SendVideo(ctx context.Context, path, caption string) error {
	if s.botToken == "" || s.chatID == "" {
		return fmt.Errorf("telegram sender misconfigured")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer file.Close()

	// Stream the multipart body so large videos are not buffered in memory.
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		err := writeForm(form, file, filepath.Base(path), s.chatID, caption)
		if cerr := form.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	endpoint := fmt.Sprintf("%s/bot%s/sendVideo", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var apiResp apiResponse
	parsed := json.Unmarshal(body, &apiResp) == nil
	if resp.StatusCode != http.StatusOK || (parsed && !apiResp.OK) {
		if parsed && apiResp.Description != "" {
			return fmt.Errorf("telegram error: %s: %s", resp.Status, apiResp.Description)
		}
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// writeForm writes the chat_id, caption, and video parts in Bot API order.
func writeForm(form *multipart.Writer, file io.Reader, filename, chatID, caption string) error {
	if err := form.WriteField("chat_id", chatID); err != nil {
		return err
	}
	if caption != "" {
		if err := form.WriteField("caption", caption); err != nil {
			return err
		}
	}

	part, err := form.CreateFormFile("video", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return nil
}
