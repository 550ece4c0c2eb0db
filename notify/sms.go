package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SMSClient posts the message to a Twilio-style messages endpoint.
type SMSClient struct {
	apiURL     string
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
}

type SMSOption func(*SMSClient)

func WithSMSHTTPClient(client *http.Client) SMSOption {
	return func(c *SMSClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewSMSClient(apiURL, accountSID, authToken, from string, opts ...SMSOption) *SMSClient {
	client := &SMSClient{
		apiURL:     apiURL,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *SMSClient) Send(ctx context.Context, text, recipient string) error {
	if c == nil {
		return errors.New("notify: sms client is nil")
	}
	if strings.TrimSpace(recipient) == "" {
		return errors.New("notify: empty recipient")
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}

	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", c.from)
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		detail := strings.TrimSpace(string(body))
		if detail != "" {
			return fmt.Errorf("notify: sms status %d: %s", resp.StatusCode, detail)
		}
		return fmt.Errorf("notify: sms status %d", resp.StatusCode)
	}
	return nil
}
