package patterns

import "github.com/Veraticus/rupee-flow/internal/model"

// number matches an Indian-format amount: 500, 12,500.50, 1,00,000.
const number = `([0-9]+(?:,[0-9]+)*(?:\.[0-9]+)?)`

// currency matches the rupee markers that prefix an amount.
const currency = `(?:\brs\.?|\binr\.?|₹)`

// gap allows Unicode spaces such as NBSP between a currency marker and its number.
const gap = `[\s\p{Zs}]*`

// DefaultTables returns the built-in pattern tables for Indian bank SMS.
func DefaultTables() Tables {
	return Tables{
		// Order matters: the first matching row wins.
		Banks: []BankPattern{
			{Bank: model.BankHDFC, Regex: `\bhdfc`},
			{Bank: model.BankICICI, Regex: `\bicici`},
			{Bank: model.BankStandardChartered, Regex: `standard\s*chartered|\bscb|scbank|\bstanc`},
			{Bank: model.BankAxis, Regex: `\baxis`},
			{Bank: model.BankSBI, Regex: `\bsbi|state\s*bank\s*of\s*india|sbiinb|sbipsg`},
			{Bank: model.BankKotak, Regex: `kotak|kmbl`},
			{Bank: model.BankPNB, Regex: `\bpnb|punjab\s*national`},
			{Bank: model.BankBOB, Regex: `bank\s*of\s*baroda|\bbob\b|barbod`},
			{Bank: model.BankYes, Regex: `yes\s*bank|yesbnk`},
			{Bank: model.BankIDFC, Regex: `\bidfc`},
			{Bank: model.BankIndusInd, Regex: `indusind|indusb`},
			{Bank: model.BankCanara, Regex: `canara|canbnk`},
		},

		Extractors: []Pattern{
			{
				Name:  "Currency Amount",
				Tag:   TagAmount,
				Regex: currency + gap + number,
			},
			{
				Name:  "Available Balance",
				Tag:   TagBalance,
				Regex: `(?:avl\.?\s*bal(?:ance)?|avail(?:able)?\.?\s*bal(?:ance)?|\bbal(?:ance)?)\s*(?:is\s*)?[:\-]?\s*` + currency + gap + number,
			},
			{
				Name:  "Account Number",
				Tag:   TagAccount,
				Regex: `(?:\ba/c|\bacct|\baccount|\bac)\.?\s*(?:no\.?\s*|number\s*)?[:\-]?\s*(?:[x*]+)?\s*([0-9]{4,6})\b`,
			},
			{
				Name:  "UPI Counterparty",
				Tag:   TagMerchant,
				Regex: `(?:\bto\b|\bfrom\b|\bat\b|@)\s*(?:vpa\b\s*[:\-]?\s*)?([a-z0-9][a-z0-9._&\-]*(?:@[a-z0-9.\-]+)?)`,
			},
			{
				Name:  "POS Vendor",
				Tag:   TagPOSVendor,
				Regex: `\bpos\b[\s/:\-]*(?:txn|transaction|purchase)?[\s/:\-]*(?:at\s+)?([a-z][a-z0-9&.\-]*(?:\s[a-z][a-z0-9&.\-]*)?)`,
			},
			{
				Name:  "Reference Number",
				Tag:   TagReference,
				Regex: `(?:upi\s*ref(?:erence)?(?:\s*no)?|ref\s*no)\.?\s*[:\-]?\s*([a-z0-9]+)`,
			},
		},

		Modes: []ModePattern{
			{Mode: model.ModeUPI, Regex: `\bupi\b|@[a-z]+`},
			{Mode: model.ModeNEFT, Regex: `\bneft\b`},
			{Mode: model.ModeIMPS, Regex: `\bimps\b`},
			{Mode: model.ModeRTGS, Regex: `\brtgs\b`},
			{Mode: model.ModeATM, Regex: `\batm\b`},
			{Mode: model.ModePOS, Regex: `\bpos\b`},
			{Mode: model.ModeCard, Regex: `\bcard\b`},
		},

		TransactionVerbs: []string{
			"debited", "credited", "withdrawn", "deposited", "transferred",
			"payment", "purchase", "spent", "received",
		},
		CurrencyMarkers: []string{"rs", "inr", "₹"},

		// Debit wins when both vocabularies appear.
		DebitKeywords: []string{
			"debited", "withdrawn", "spent", "paid", "purchase", "sent to", "transferred to",
		},
		CreditKeywords: []string{
			"credited", "deposited", "received", "refund", "cashback", "transferred from",
		},

		TransferRails: []string{"neft", "imps", "rtgs"},

		SpamKeywords: []string{
			"offer", "win", "reward points", "cashback offer", "congratulations",
			"limited period", "apply now",
		},

		// Tokens that follow to/from/at in bank boilerplate rather than naming a counterparty.
		MerchantStopWords: []string{
			"a", "an", "the", "your", "you", "my", "ac", "acct", "account", "card",
			"upi", "vpa", "ref", "rs", "inr", "bank", "beneficiary", "xx", "atm", "pos",
		},
	}
}
