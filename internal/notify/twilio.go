package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lendledger/lendledger-backend/internal/config"
	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioNotifier sends SMS through the Twilio Messages REST API
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

// NewTwilioNotifier creates a notifier from Twilio credentials
func NewTwilioNotifier(cfg config.TwilioConfig) *TwilioNotifier {
	return &TwilioNotifier{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.PhoneNumber,
		baseURL:    twilioAPIBase,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// SendLoanCreated sends the loan-created confirmation SMS
func (n *TwilioNotifier) SendLoanCreated(ctx context.Context, phone, borrowerName string, loan *domain.Loan) error {
	return n.send(ctx, phone, loanCreatedBody(borrowerName, loan))
}

// SendPaymentRecorded sends the payment confirmation SMS with the remaining
// balance after the payment was applied
func (n *TwilioNotifier) SendPaymentRecorded(ctx context.Context, phone, borrowerName string, loanID int32, amount, remainingBalance decimal.Decimal) error {
	return n.send(ctx, phone, paymentRecordedBody(borrowerName, loanID, amount, remainingBalance))
}

func (n *TwilioNotifier) send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", n.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", n.baseURL, n.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, string(payload))
	}

	var result struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Message was accepted; a malformed body only costs us the SID log field
		log.Warn().Err(err).Msg("Failed to decode Twilio response")
		return nil
	}

	log.Info().Str("message_sid", result.SID).Msg("SMS sent")
	return nil
}
