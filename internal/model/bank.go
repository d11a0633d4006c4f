package model

// Bank identifies the issuing bank of an SMS.
type Bank string

// Banks recognized by the default pattern library.
const (
	BankHDFC              Bank = "HDFC"
	BankICICI             Bank = "ICICI"
	BankStandardChartered Bank = "STANDARD_CHARTERED"
	BankAxis              Bank = "AXIS"
	BankSBI               Bank = "SBI"
	BankKotak             Bank = "KOTAK"
	BankPNB               Bank = "PNB"
	BankBOB               Bank = "BOB"
	BankYes               Bank = "YES"
	BankIDFC              Bank = "IDFC"
	BankIndusInd          Bank = "INDUSIND"
	BankCanara            Bank = "CANARA"
	BankUnknown           Bank = "UNKNOWN"
)

// DisplayName returns a human readable bank name.
func (b Bank) DisplayName() string {
	switch b {
	case BankHDFC:
		return "HDFC Bank"
	case BankICICI:
		return "ICICI Bank"
	case BankStandardChartered:
		return "Standard Chartered"
	case BankAxis:
		return "Axis Bank"
	case BankSBI:
		return "State Bank of India"
	case BankKotak:
		return "Kotak Mahindra Bank"
	case BankPNB:
		return "Punjab National Bank"
	case BankBOB:
		return "Bank of Baroda"
	case BankYes:
		return "Yes Bank"
	case BankIDFC:
		return "IDFC First Bank"
	case BankIndusInd:
		return "IndusInd Bank"
	case BankCanara:
		return "Canara Bank"
	default:
		return "Unknown"
	}
}
