// Package smsbackup reads message exports produced by the Android "SMS Backup & Restore" app.
//
// The export is a single XML document:
//
//	<smses count="2">
//	  <sms address="VM-HDFCBK" date="1704067200000" type="1" body="Rs.500 debited ..." />
//	</smses>
//
// Dates are epoch milliseconds. Only received messages (type 1) are returned
// unless Options.IncludeSent is set.
package smsbackup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/rupee-flow/internal/ingest"
)

// ErrNotBackup is returned when the document root is not <smses>.
var ErrNotBackup = errors.New("not an SMS backup document")

const inboxType = "1"

// SMS is a single <sms> element.
type SMS struct {
	Address string `xml:"address,attr"`
	Body    string `xml:"body,attr"`
	Date    string `xml:"date,attr"`
	Type    string `xml:"type,attr"`
}

// Options filter the messages returned by Read.
type Options struct {
	// Since drops messages received before this instant.
	Since time.Time
	// Senders keeps only messages whose address matches one of these ids.
	// Operator prefixes such as "VM-" or "AD-" are ignored when matching.
	Senders []string
	// IncludeSent also returns messages the phone sent.
	IncludeSent bool
}

// Result is the outcome of reading one backup.
type Result struct {
	Messages   []ingest.Message
	Total      int
	Duplicates int
	Filtered   int
	Invalid    int
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-supplied on purpose
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, opts)
}

// Read streams <sms> elements from r, applying filters and dropping exact duplicates.
// Messages are returned in document order.
func Read(r io.Reader, opts Options) (*Result, error) {
	dec := xml.NewDecoder(r)
	result := &Result{}
	seen := make(map[string]struct{})
	senders := normalizeSenders(opts.Senders)
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "smses":
			sawRoot = true
			continue
		case "sms":
		default:
			if !sawRoot {
				return nil, fmt.Errorf("%w: root element <%s>", ErrNotBackup, start.Name.Local)
			}
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("error parsing XML: %w", err)
			}
			continue
		}
		if !sawRoot {
			return nil, fmt.Errorf("%w: <sms> outside <smses>", ErrNotBackup)
		}

		var sms SMS
		if err := dec.DecodeElement(&sms, &start); err != nil {
			return nil, fmt.Errorf("error parsing XML: %w", err)
		}
		result.Total++

		signature := sms.Date + "|" + sms.Address + "|" + sms.Body
		if _, dup := seen[signature]; dup {
			result.Duplicates++
			continue
		}
		seen[signature] = struct{}{}

		received, err := parseEpochMillis(sms.Date)
		if err != nil || strings.TrimSpace(sms.Body) == "" {
			result.Invalid++
			continue
		}

		if !opts.IncludeSent && sms.Type != "" && sms.Type != inboxType {
			result.Filtered++
			continue
		}
		if !opts.Since.IsZero() && received.Before(opts.Since) {
			result.Filtered++
			continue
		}
		if len(senders) > 0 && !matchesSender(sms.Address, senders) {
			result.Filtered++
			continue
		}

		result.Messages = append(result.Messages, ingest.Message{
			Received: received,
			Sender:   sms.Address,
			Body:     sms.Body,
		})
	}

	if !sawRoot {
		return nil, ErrNotBackup
	}
	return result, nil
}

func parseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if ms <= 0 {
		return time.Time{}, fmt.Errorf("non-positive timestamp %d", ms)
	}
	return time.UnixMilli(ms), nil
}

func normalizeSenders(senders []string) []string {
	out := make([]string, 0, len(senders))
	for _, s := range senders {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// matchesSender compares the address with its operator prefix stripped.
func matchesSender(address string, senders []string) bool {
	addr := strings.ToUpper(strings.TrimSpace(address))
	bare := addr
	if i := strings.LastIndex(addr, "-"); i >= 0 {
		bare = addr[i+1:]
	}
	for _, s := range senders {
		if addr == s || bare == s {
			return true
		}
	}
	return false
}
