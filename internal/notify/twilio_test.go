package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoan() *domain.Loan {
	return &domain.Loan{
		ID: 1,
		Terms: domain.LoanTerms{
			Principal:         decimal.NewFromInt(10000),
			AnnualRatePercent: decimal.NewFromInt(12),
			TermMonths:        12,
		},
		EMI: decimal.RequireFromString("888.49"),
	}
}

func newTestNotifier(serverURL string) *TwilioNotifier {
	return &TwilioNotifier{
		accountSID: "AC123",
		authToken:  "token",
		from:       "+15550000000",
		baseURL:    serverURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestTwilioNotifier_SendLoanCreated(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostFormValue("To")
		gotFrom = r.PostFormValue("From")
		gotBody = r.PostFormValue("Body")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123"}`))
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.SendLoanCreated(context.Background(), "+60123456789", "Alice", testLoan())
	require.NoError(t, err)

	assert.Equal(t, "/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "token", gotPass)
	assert.Equal(t, "+60123456789", gotTo)
	assert.Equal(t, "+15550000000", gotFrom)
	assert.Contains(t, gotBody, "Hello Alice,")
	assert.Contains(t, gotBody, "Monthly EMI: 888.49")
}

func TestTwilioNotifier_SendPaymentRecorded(t *testing.T) {
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM456"}`))
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.SendPaymentRecorded(context.Background(), "+60123456789", "Bob", 3,
		decimal.RequireFromString("888.49"),
		decimal.RequireFromString("9773.39"))
	require.NoError(t, err)

	assert.Contains(t, gotBody, "Loan ID: 3")
	assert.Contains(t, gotBody, "Remaining Balance: 9,773.39")
}

func TestTwilioNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": 20003, "message": "Authenticate"}`))
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.SendLoanCreated(context.Background(), "+60123456789", "Alice", testLoan())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTwilioNotifier_MalformedResponseBodyIsIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.SendLoanCreated(context.Background(), "+60123456789", "Alice", testLoan())
	assert.NoError(t, err, "accepted message with unreadable body should not error")
}
