package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// ErrInvalidResponse is returned when the model's reply cannot be used as a transaction.
var ErrInvalidResponse = errors.New("invalid model response")

// TransactionFields is the validated content of a model reply for one SMS.
type TransactionFields struct {
	Balance         *decimal.Decimal
	Amount          decimal.Decimal
	Type            model.TransactionType
	Merchant        string
	AccountLastFour string
	ReferenceNumber string
	Mode            model.Mode
}

type transactionReply struct {
	TransactionType flexString `json:"transactionType"`
	Amount          flexAmount `json:"amount"`
	Balance         flexAmount `json:"balance"`
	Merchant        flexString `json:"merchant"`
	AccountLastFour flexString `json:"accountLastFour"`
	ReferenceNumber flexString `json:"referenceNumber"`
	TransactionMode flexString `json:"transactionMode"`
}

// DecodeTransaction parses a model reply into TransactionFields. Markdown code fences
// around the JSON are removed first. The reply must name a DEBIT, CREDIT or UNKNOWN type
// and a positive amount; every other field may be null.
func DecodeTransaction(text string) (TransactionFields, error) {
	cleaned := cleanMarkdownWrapper(text)
	if cleaned == "" {
		return TransactionFields{}, fmt.Errorf("%w: empty reply", ErrInvalidResponse)
	}

	var reply transactionReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return TransactionFields{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if !reply.TransactionType.valid {
		return TransactionFields{}, fmt.Errorf("%w: missing transactionType", ErrInvalidResponse)
	}
	txType, ok := model.ParseTransactionType(reply.TransactionType.value)
	if !ok {
		return TransactionFields{}, fmt.Errorf("%w: unexpected transactionType %q", ErrInvalidResponse, reply.TransactionType.value)
	}

	if reply.Amount.value == nil || !reply.Amount.value.IsPositive() {
		return TransactionFields{}, fmt.Errorf("%w: amount must be positive", ErrInvalidResponse)
	}

	return TransactionFields{
		Type:            txType,
		Amount:          *reply.Amount.value,
		Balance:         reply.Balance.value,
		Merchant:        strings.TrimSpace(reply.Merchant.value),
		AccountLastFour: digitsOnly(reply.AccountLastFour.value),
		ReferenceNumber: strings.TrimSpace(reply.ReferenceNumber.value),
		Mode:            model.ParseMode(reply.TransactionMode.value),
	}, nil
}

// cleanMarkdownWrapper removes a leading ```json or ``` fence and a trailing ``` fence.
func cleanMarkdownWrapper(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```json"), "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) > 4 {
		d = d[len(d)-4:]
	}
	return d
}

// flexString accepts a JSON string, number or null.
type flexString struct {
	value string
	valid bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = flexString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString{value: s, valid: strings.TrimSpace(s) != ""}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString{value: n.String(), valid: true}
	return nil
}

// flexAmount accepts a JSON number, a numeric string such as "1,500.00" or "Rs. 250", or null.
type flexAmount struct {
	value *decimal.Decimal
}

func (f *flexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.value = nil
		return nil
	}

	raw := string(data)
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = s
	}

	raw = strings.TrimSpace(raw)
	for _, prefix := range []string{"₹", "INR", "Rs.", "Rs"} {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, prefix))
	}
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		f.value = nil
		return nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	f.value = &d
	return nil
}
