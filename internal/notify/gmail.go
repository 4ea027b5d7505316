package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1"

// GmailTransport delivers mail through the Gmail REST send API using a
// manually supplied OAuth access token. Tokens expire after roughly an hour;
// an expired token surfaces as a delivery failure, never a crash.
type GmailTransport struct {
	httpClient  *http.Client
	baseURL     string
	from        string
	fromName    string
	accessToken string
	logger      *zap.Logger
}

func NewGmailTransport(from, fromName, accessToken string, logger *zap.Logger) *GmailTransport {
	return &GmailTransport{
		httpClient:  &http.Client{},
		baseURL:     gmailBaseURL,
		from:        from,
		fromName:    fromName,
		accessToken: accessToken,
		logger:      logger,
	}
}

// Verify makes a profile call so an invalid or expired token is rejected at
// startup rather than on the first delivery.
func (t *GmailTransport) Verify(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/users/me/profile", nil)
	if err != nil {
		return fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.accessToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail token rejected with status %d: %s", resp.StatusCode, string(body))
	}

	t.logger.Info("Gmail API access token verified")
	return nil
}

func (t *GmailTransport) Deliver(ctx context.Context, to, subject, body string) error {
	rfc822 := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		t.fromName, t.from, to, subject, body,
	)

	payload, err := json.Marshal(map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(rfc822)),
	})
	if err != nil {
		return fmt.Errorf("failed to encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/users/me/messages/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.accessToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail send failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var sent struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sent); err != nil {
		return fmt.Errorf("failed to decode send response: %w", err)
	}

	t.logger.Info("Email sent via Gmail API", zap.String("message_id", sent.ID))
	return nil
}
