// Package patterns holds the declarative regex and keyword tables used to read bank SMS,
// compiled once into an immutable Library that can be shared across goroutines.
package patterns

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// Tag names the field a pattern extracts.
type Tag string

const (
	// TagAmount captures the transaction amount.
	TagAmount Tag = "amount"
	// TagBalance captures the available balance after the transaction.
	TagBalance Tag = "balance"
	// TagAccount captures the masked account number digits.
	TagAccount Tag = "account"
	// TagMerchant captures a UPI-style counterparty token.
	TagMerchant Tag = "merchant"
	// TagPOSVendor captures the vendor of a card-present purchase.
	TagPOSVendor Tag = "pos_vendor"
	// TagReference captures a UPI or bank reference number.
	TagReference Tag = "reference"
)

// Pattern is one row of an extraction table. Regex must contain exactly one capture group.
type Pattern struct {
	Name  string
	Tag   Tag
	Regex string
}

// BankPattern maps a sender-id or body pattern onto a bank.
type BankPattern struct {
	Bank  model.Bank
	Regex string
}

// ModePattern maps a keyword pattern onto a payment rail.
type ModePattern struct {
	Mode  model.Mode
	Regex string
}

// Tables is the uncompiled, declarative form of a Library.
type Tables struct {
	Banks             []BankPattern
	Extractors        []Pattern
	Modes             []ModePattern
	TransactionVerbs  []string
	CurrencyMarkers   []string
	DebitKeywords     []string
	CreditKeywords    []string
	TransferRails     []string
	SpamKeywords      []string
	MerchantStopWords []string
}

type compiledBank struct {
	regex *regexp.Regexp
	bank  model.Bank
}

type compiledMode struct {
	regex *regexp.Regexp
	mode  model.Mode
}

// Library is a compiled, read-only pattern set. All methods are safe for concurrent use.
type Library struct {
	extractors map[Tag][]*regexp.Regexp
	stopWords  map[string]struct{}
	banks      []compiledBank
	modes      []compiledMode
	spam       []*regexp.Regexp
	verbs      []string
	currency   []string
	debit      []string
	credit     []string
	transfer   []string
}

// New compiles every table. Patterns are made case-insensitive.
func New(t Tables) (*Library, error) {
	lib := &Library{
		extractors: make(map[Tag][]*regexp.Regexp),
		stopWords:  make(map[string]struct{}, len(t.MerchantStopWords)),
		verbs:      lowerAll(t.TransactionVerbs),
		currency:   lowerAll(t.CurrencyMarkers),
		debit:      lowerAll(t.DebitKeywords),
		credit:     lowerAll(t.CreditKeywords),
		transfer:   lowerAll(t.TransferRails),
	}

	for _, b := range t.Banks {
		re, err := compile(b.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile bank pattern %s: %w", b.Bank, err)
		}
		lib.banks = append(lib.banks, compiledBank{bank: b.Bank, regex: re})
	}

	for _, p := range t.Extractors {
		re, err := compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("pattern %s has no capture group", p.Name)
		}
		lib.extractors[p.Tag] = append(lib.extractors[p.Tag], re)
	}

	for _, m := range t.Modes {
		re, err := compile(m.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile mode pattern %s: %w", m.Mode, err)
		}
		lib.modes = append(lib.modes, compiledMode{mode: m.Mode, regex: re})
	}

	for _, k := range t.SpamKeywords {
		words := strings.Fields(strings.ToLower(k))
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		re, err := compile(`\b` + strings.Join(words, `\s+`) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("failed to compile spam keyword %q: %w", k, err)
		}
		lib.spam = append(lib.spam, re)
	}

	for _, w := range t.MerchantStopWords {
		lib.stopWords[strings.ToLower(w)] = struct{}{}
	}

	return lib, nil
}

var defaultLibrary = sync.OnceValues(func() (*Library, error) {
	return New(DefaultTables())
})

// Default returns the process-wide library built from DefaultTables. It is compiled on first use.
func Default() (*Library, error) {
	return defaultLibrary()
}

// MustDefault is Default for callers that treat a broken built-in table as fatal.
func MustDefault() *Library {
	lib, err := Default()
	if err != nil {
		panic(err)
	}
	return lib
}

func compile(expr string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// IdentifyBank returns the first bank whose pattern matches text.
func (l *Library) IdentifyBank(text string) (model.Bank, bool) {
	if text == "" {
		return model.BankUnknown, false
	}
	for _, b := range l.banks {
		if b.regex.MatchString(text) {
			return b.bank, true
		}
	}
	return model.BankUnknown, false
}

// IsTransactional reports whether lower contains both a transaction verb and a currency marker.
func (l *Library) IsTransactional(lower string) bool {
	return containsAny(lower, l.verbs) && containsAny(lower, l.currency)
}

// IsDebit reports whether lower contains debit vocabulary.
func (l *Library) IsDebit(lower string) bool {
	return containsAny(lower, l.debit)
}

// IsCredit reports whether lower contains credit vocabulary.
func (l *Library) IsCredit(lower string) bool {
	return containsAny(lower, l.credit)
}

// IsTransfer reports whether lower names an inter-bank transfer rail.
func (l *Library) IsTransfer(lower string) bool {
	return containsAny(lower, l.transfer)
}

// IsSpam reports whether text contains any promotional keyword as a whole word or phrase.
func (l *Library) IsSpam(text string) bool {
	for _, re := range l.spam {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Mode returns the first payment rail named in text.
func (l *Library) Mode(text string) model.Mode {
	for _, m := range l.modes {
		if m.regex.MatchString(text) {
			return m.mode
		}
	}
	return model.ModeNone
}

// Find returns the first capture of the earliest-listed pattern for tag that matches text.
func (l *Library) Find(tag Tag, text string) (string, bool) {
	for _, re := range l.extractors[tag] {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// FindAll returns every capture for tag in order of appearance, pattern by pattern.
func (l *Library) FindAll(tag Tag, text string) []string {
	var out []string
	for _, re := range l.extractors[tag] {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			out = append(out, m[1])
		}
	}
	return out
}

// IsStopWord reports whether token is bank boilerplate rather than a counterparty name.
func (l *Library) IsStopWord(token string) bool {
	_, ok := l.stopWords[strings.ToLower(token)]
	return ok
}

func containsAny(lower string, set []string) bool {
	for _, k := range set {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
