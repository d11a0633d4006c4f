package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/rupee-flow/internal/model"
)

func sampleMessages(n int) []Message {
	msgs := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		switch i % 3 {
		case 0:
			msgs = append(msgs, Message{Sender: "HDFCBK", Body: fmt.Sprintf("Rs.%d debited from a/c XX1234. UPI Ref %d to shop%d@okaxis", 100+i, 900000+i, i)})
		case 1:
			msgs = append(msgs, Message{Sender: "ICICIB", Body: fmt.Sprintf("INR %d credited to your a/c XX5678 by IMPS", 1000+i)})
		default:
			msgs = append(msgs, Message{Sender: "PROMO", Body: "Your OTP is 123456"})
		}
	}
	return msgs
}

func TestResolveBatchKeepsOrder(t *testing.T) {
	r := newTestResolver(t)
	msgs := sampleMessages(30)

	var progress []int
	outcomes, err := r.ResolveBatch(context.Background(), msgs, BatchOptions{
		Workers: 8,
		OnProgress: func(done, total int) {
			assert.Equal(t, 30, total)
			progress = append(progress, done)
		},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, len(msgs))

	for i, o := range outcomes {
		assert.Equal(t, msgs[i], o.Message)
		assert.Equal(t, i%3 != 2, o.OK, "message %d", i)
	}
	require.Len(t, progress, 30)
	for i, p := range progress {
		assert.Equal(t, i+1, p)
	}
}

func TestResolveBatchMatchesSequential(t *testing.T) {
	r := newTestResolver(t)
	msgs := sampleMessages(12)

	outcomes, err := r.ResolveBatch(context.Background(), msgs, BatchOptions{Workers: 3})
	require.NoError(t, err)

	for i, msg := range msgs {
		assert.Equal(t, r.Resolve(context.Background(), msg), outcomes[i])
	}
}

func TestResolveBatchCanceled(t *testing.T) {
	r := newTestResolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := r.ResolveBatch(ctx, sampleMessages(10), BatchOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcomes)
}

func TestResolveBatchEmpty(t *testing.T) {
	r := newTestResolver(t)

	outcomes, err := r.ResolveBatch(context.Background(), nil, BatchOptions{})

	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestSummarizeAndTransactions(t *testing.T) {
	r := newTestResolver(t)
	msgs := append(sampleMessages(6),
		Message{Body: "Congratulations! Rs.500 cashback credited to your wallet. Limited period offer"},
		Message{Body: "Rs.0 debited from a/c XX1234"},
	)

	outcomes, err := r.ResolveBatch(context.Background(), msgs, BatchOptions{Workers: 2})
	require.NoError(t, err)

	stats := Summarize(outcomes)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 5, stats.Parsed)
	assert.Equal(t, 3, stats.Skipped())
	assert.Equal(t, 2, stats.NotTransactional)
	assert.Equal(t, 1, stats.NoAmount)
	assert.Equal(t, 1, stats.Spam)
	assert.Equal(t, 5, stats.Regex)
	assert.Zero(t, stats.AI)
	assert.Equal(t, 2, stats.Debits)
	assert.Equal(t, 3, stats.Credits)

	assert.Len(t, Transactions(outcomes, true), 5)
	withoutSpam := Transactions(outcomes, false)
	assert.Len(t, withoutSpam, 4)
	for _, tx := range withoutSpam {
		assert.False(t, tx.IsSpam)
		assert.Equal(t, model.ParseMethodRegex, tx.ParseMethod)
	}
}
