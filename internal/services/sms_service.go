package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/aviaclub/internal/config"
)

// SMSService delivers one-time codes through the SMS gateway. All
// sends are best-effort: callers fire them from a goroutine and only
// log failures.
type SMSService struct {
	baseURL string
	apiKey  string
	sender  string
	enabled bool
	client  *http.Client
}

// NewSMSService builds a gateway client from config.
func NewSMSService(cfg *config.Config) *SMSService {
	return &SMSService{
		baseURL: strings.TrimRight(cfg.SMSBaseURL, "/"),
		apiKey:  cfg.SMSAPIKey,
		sender:  cfg.SMSSender,
		enabled: cfg.SMSEnabled,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type smsMessage struct {
	To   string `json:"to"`
	From string `json:"from"`
	Text string `json:"text"`
}

// SendVerificationCode sends the login code to the given phone. When
// the gateway is disabled the code is only logged, which keeps local
// development working without credentials.
func (s *SMSService) SendVerificationCode(phone, code string) error {
	text := fmt.Sprintf("AviaClub login code: %s", code)

	if !s.enabled {
		log.Printf("[SMS] gateway disabled, code for %s: %s", phone, code)
		return nil
	}

	msg := smsMessage{
		To:   phone,
		From: s.sender,
		Text: text,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
