package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidateWalletAddress checks that an address is a well-formed Solana wallet
// public key: 32 base58-decoded bytes forming a valid ed25519 curve point.
// Program-derived addresses are off-curve and rejected, which is correct for
// tracked wallets since only key-owned accounts can sign transactions.
func ValidateWalletAddress(address string) error {
	decoded, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("decode address %q: %w", address, err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("address %q: expected 32 bytes, got %d", address, len(decoded))
	}
	if _, err := new(edwards25519.Point).SetBytes(decoded); err != nil {
		return fmt.Errorf("address %q is not on the ed25519 curve: %w", address, err)
	}
	return nil
}
