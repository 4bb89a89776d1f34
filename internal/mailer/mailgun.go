package mailer

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

// ErrNotConfigured means the mail credentials are absent. The contact
// feature degrades; nothing else is affected.
var ErrNotConfigured = errors.New("mailgun is not configured")

// Client sends plain-text mail through the Mailgun HTTP API.
type Client struct {
	apiKey  string
	domain  string
	baseURL string
	http    *http.Client
}

func New(apiKey, domain, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		domain:  domain,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.domain != ""
}

// Send posts one message. The call is synchronous and bounded by the
// client's timeout.
func (c *Client) Send(to, subject, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/%s/messages", c.baseURL, c.domain)
	form := url.Values{}
	form.Set("from", fmt.Sprintf("Mailgun <postmaster@%s>", c.domain))
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", text)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Log.Error("Mailgun request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("Mailgun rejected message",
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("mailgun returned status %d", resp.StatusCode)
	}

	logger.Log.Info("Mail sent", zap.String("to", to))
	return nil
}
