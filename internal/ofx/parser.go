// Package ofx imports holdings from OFX/QFX statements.
//
// Investment statements contribute positions (stocks, mutual funds, bonds)
// valued at market value, plus available cash as a bank account. Bank
// statements contribute their ledger balance as a bank account.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/rupee-flow/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Holdings is everything an OFX file said about the portfolio.
type Holdings struct {
	AsOf         time.Time
	Assets       []model.Asset
	BankAccounts []model.BankAccount
	Skipped      int
}

// Parser implements OFX/QFX holdings parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket on bare aggregate tags
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseHoldings parses an OFX/QFX file and returns the holdings it describes.
func (p *Parser) ParseHoldings(ctx context.Context, reader io.Reader) (*Holdings, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	securities := securityNames(resp)
	holdings := &Holdings{}
	var invStmts, bankStmts int

	for _, msg := range resp.InvStmt {
		stmt, ok := msg.(*ofxgo.InvStatementResponse)
		if !ok {
			continue
		}
		invStmts++
		p.processInvestmentStatement(stmt, securities, holdings)
	}

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		bankStmts++
		acct := string(stmt.BankAcctFrom.AcctID)
		balance, _ := stmt.BalAmt.Float64()
		holdings.BankAccounts = append(holdings.BankAccounts, model.BankAccount{
			ID:      "ofx:" + acct,
			Name:    accountName(stmt.BankAcctFrom.AcctType.String(), acct),
			Bank:    model.BankUnknown,
			Balance: balance,
		})
		holdings.noteAsOf(stmt.DtAsOf.Time)
	}

	p.logger.Info("Parsed OFX holdings",
		"assets", len(holdings.Assets),
		"bank_accounts", len(holdings.BankAccounts),
		"investment_statements", invStmts,
		"bank_statements", bankStmts,
		"skipped_positions", holdings.Skipped)

	return holdings, nil
}

func (p *Parser) processInvestmentStatement(stmt *ofxgo.InvStatementResponse, securities map[string]security, h *Holdings) {
	acct := string(stmt.InvAcctFrom.AcctID)
	h.noteAsOf(stmt.DtAsOf.Time)

	for _, pos := range stmt.InvPosList {
		var (
			inv       ofxgo.InvPosition
			assetType model.AssetType
		)
		switch position := pos.(type) {
		case ofxgo.StockPosition:
			inv, assetType = position.InvPos, model.AssetTypeStock
		case ofxgo.MFPosition:
			inv, assetType = position.InvPos, model.AssetTypeMutualFund
		case ofxgo.DebtPosition:
			inv, assetType = position.InvPos, model.AssetTypeBond
		case ofxgo.OtherPosition:
			inv = position.InvPos
			if sec := securities[secKey(inv.SecID)]; strings.Contains(strings.ToUpper(sec.name), "GOLD") {
				assetType = model.AssetTypeGold
			}
		default:
			p.logger.Debug("Skipping unsupported position", "type", pos.PositionType(), "account", acct)
			h.Skipped++
			continue
		}
		if assetType == "" {
			p.logger.Debug("Skipping position with no asset class", "security", string(inv.SecID.UniqueID), "account", acct)
			h.Skipped++
			continue
		}

		value, _ := inv.MktVal.Float64()
		units, _ := inv.Units.Float64()
		if value < 0 {
			p.logger.Warn("Skipping short position", "security", string(inv.SecID.UniqueID), "account", acct)
			h.Skipped++
			continue
		}

		h.Assets = append(h.Assets, model.Asset{
			ID:           "ofx:" + acct + ":" + secKey(inv.SecID),
			Name:         securities[secKey(inv.SecID)].displayName(inv.SecID),
			Type:         assetType,
			CurrentValue: value,
			Units:        units,
		})
	}

	if stmt.InvBal != nil {
		cash, _ := stmt.InvBal.AvailCash.Float64()
		if cash != 0 {
			h.BankAccounts = append(h.BankAccounts, model.BankAccount{
				ID:      "ofx:" + acct + ":cash",
				Name:    accountName("Brokerage cash", acct),
				Bank:    model.BankUnknown,
				Balance: cash,
			})
		}
	}
}

func (h *Holdings) noteAsOf(t time.Time) {
	if t.After(h.AsOf) {
		h.AsOf = t
	}
}

// ApplyTo merges the imported holdings into an existing snapshot.
// Entries with the same ID are replaced; everything else is kept.
func (h *Holdings) ApplyTo(s model.Snapshot) model.Snapshot {
	out := s
	out.Assets = mergeByID(s.Assets, h.Assets, func(a model.Asset) string { return a.ID })
	out.BankAccounts = mergeByID(s.BankAccounts, h.BankAccounts, func(b model.BankAccount) string { return b.ID })
	return out
}

func mergeByID[T any](existing, incoming []T, id func(T) string) []T {
	index := make(map[string]int, len(existing))
	merged := make([]T, 0, len(existing)+len(incoming))
	for _, e := range existing {
		if key := id(e); key != "" {
			index[key] = len(merged)
		}
		merged = append(merged, e)
	}
	for _, in := range incoming {
		if i, ok := index[id(in)]; ok {
			merged[i] = in
			continue
		}
		index[id(in)] = len(merged)
		merged = append(merged, in)
	}
	return merged
}

type security struct {
	name   string
	ticker string
}

func (s security) displayName(id ofxgo.SecurityID) string {
	switch {
	case s.name != "" && s.ticker != "":
		return fmt.Sprintf("%s (%s)", s.name, s.ticker)
	case s.name != "":
		return s.name
	case s.ticker != "":
		return s.ticker
	default:
		return string(id.UniqueID)
	}
}

func secKey(id ofxgo.SecurityID) string {
	return string(id.UniqueIDType) + ":" + string(id.UniqueID)
}

// securityNames indexes the SECLIST so positions can be labelled.
func securityNames(resp *ofxgo.Response) map[string]security {
	names := make(map[string]security)
	for _, msg := range resp.SecList {
		list, ok := msg.(*ofxgo.SecurityList)
		if !ok {
			continue
		}
		for _, sec := range list.Securities {
			var info ofxgo.SecInfo
			switch s := sec.(type) {
			case ofxgo.StockInfo:
				info = s.SecInfo
			case ofxgo.MFInfo:
				info = s.SecInfo
			case ofxgo.DebtInfo:
				info = s.SecInfo
			case ofxgo.OptInfo:
				info = s.SecInfo
			case ofxgo.OtherInfo:
				info = s.SecInfo
			default:
				continue
			}
			names[secKey(info.SecID)] = security{
				name:   strings.TrimSpace(string(info.SecName)),
				ticker: strings.TrimSpace(string(info.Ticker)),
			}
		}
	}
	return names
}

func accountName(kind, acct string) string {
	if len(acct) > 4 {
		acct = acct[len(acct)-4:]
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "Account"
	}
	return fmt.Sprintf("%s XX%s", kind, acct)
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			accounts = append(accounts, id)
		}
	}

	for _, msg := range resp.InvStmt {
		if stmt, ok := msg.(*ofxgo.InvStatementResponse); ok {
			add(string(stmt.InvAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(string(stmt.BankAcctFrom.AcctID))
		}
	}

	return accounts, nil
}
