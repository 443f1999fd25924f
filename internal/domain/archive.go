package domain

// ArchivedSwap is the analytics view of one classified swap, written to the
// archive for every parsed DEX interaction regardless of whether it passed
// the tracked-token gate. Amounts are fixed 6-decimal strings; Timestamp is
// Unix milliseconds.
type ArchivedSwap struct {
	Wallet         string
	Dex            string
	Operation      string
	Side           string
	TokenInMint    string
	TokenInAmount  string
	TokenOutMint   string
	TokenOutAmount string
	Signature      string
	Timestamp      int64
}
