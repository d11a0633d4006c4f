package ingest

import (
	"errors"

	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/smsparse"
)

// Stats summarises a batch of outcomes.
type Stats struct {
	Total            int
	Parsed           int
	NotTransactional int
	NoAmount         int
	Spam             int
	AI               int
	Regex            int
	AIFailures       int
	CacheHits        int
	Debits           int
	Credits          int
}

// Skipped is the number of messages that produced no transaction.
func (s Stats) Skipped() int {
	return s.Total - s.Parsed
}

// Add folds one outcome into the stats.
func (s *Stats) Add(o Outcome) {
	s.Total++
	if o.AIErr != nil {
		s.AIFailures++
	}
	if !o.OK {
		switch {
		case errors.Is(o.Reason, smsparse.ErrNotTransactional):
			s.NotTransactional++
		case errors.Is(o.Reason, smsparse.ErrNoAmount):
			s.NoAmount++
		}
		return
	}

	s.Parsed++
	if o.Cached {
		s.CacheHits++
	}
	if o.Transaction.IsSpam {
		s.Spam++
	}
	switch o.Method {
	case model.ParseMethodAI:
		s.AI++
	case model.ParseMethodRegex:
		s.Regex++
	}
	switch o.Transaction.Type {
	case model.TransactionTypeDebit:
		s.Debits++
	case model.TransactionTypeCredit:
		s.Credits++
	}
}

// Summarize computes Stats for outcomes.
func Summarize(outcomes []Outcome) Stats {
	var s Stats
	for _, o := range outcomes {
		s.Add(o)
	}
	return s
}
