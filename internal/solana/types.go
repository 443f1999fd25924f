package solana

// LogsFilter selects which transactions a log subscription delivers.
type LogsFilter struct {
	// Mentions restricts notifications to transactions referencing these
	// addresses. Empty means all transactions.
	Mentions []string
}

// LogNotification is one logsSubscribe event.
type LogNotification struct {
	Signature string
	Logs      []string
	Slot      int64
	Err       interface{}
}

// ParsedTransaction is the jsonParsed view of one confirmed transaction,
// carrying exactly what the swap parser consumes.
type ParsedTransaction struct {
	Slot       int64
	BlockTime  int64 // Unix seconds, 0 when unavailable
	Signatures []string
	Meta       *TransactionMeta
	Message    *TransactionMessage
}

// TransactionMeta holds balance deltas and inner instructions.
type TransactionMeta struct {
	Err               interface{}
	PreBalances       []uint64
	PostBalances      []uint64
	InnerInstructions []InnerInstructionGroup
	LogMessages       []string
}

// InnerInstructionGroup is the set of inner instructions executed under one
// top-level instruction.
type InnerInstructionGroup struct {
	Index        int
	Instructions []ParsedInstruction
}

// ParsedInstruction is one jsonParsed instruction. Parsed is nil for
// instructions the RPC node could not decode.
type ParsedInstruction struct {
	Program   string
	ProgramID string
	Parsed    *InstructionDetail
}

// InstructionDetail is the decoded instruction payload.
type InstructionDetail struct {
	Type string
	Info InstructionInfo
}

// InstructionInfo carries the fields of an SPL token transfer. Amount is a
// base-10 string of raw token units, as jsonParsed encodes it.
type InstructionInfo struct {
	Amount      string
	Source      string
	Destination string
	Authority   string
}

// AccountKey is one entry of a transaction's account list.
type AccountKey struct {
	Pubkey   string
	Signer   bool
	Writable bool
}

// TransactionMessage holds the transaction's account keys with signer flags.
type TransactionMessage struct {
	AccountKeys []AccountKey
}
