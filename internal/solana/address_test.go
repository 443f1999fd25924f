package solana

import (
	"testing"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

func TestValidateWalletAddress(t *testing.T) {
	// An on-curve point is a valid wallet address.
	valid := base58.Encode(edwards25519.NewGeneratorPoint().Bytes())
	if err := ValidateWalletAddress(valid); err != nil {
		t.Errorf("expected valid address, got: %v", err)
	}
}

func TestValidateWalletAddress_BadBase58(t *testing.T) {
	// 0, O, I and l are not in the base58 alphabet.
	if err := ValidateWalletAddress("0OIl"); err == nil {
		t.Error("expected error for invalid base58")
	}
}

func TestValidateWalletAddress_WrongLength(t *testing.T) {
	short := base58.Encode([]byte{1, 2, 3})
	if err := ValidateWalletAddress(short); err == nil {
		t.Error("expected error for short address")
	}
}

func TestValidateWalletAddress_NonCanonical(t *testing.T) {
	// All 0xFF encodes a y coordinate above the field prime.
	bad := make([]byte, 32)
	for i := range bad {
		bad[i] = 0xFF
	}
	if err := ValidateWalletAddress(base58.Encode(bad)); err == nil {
		t.Error("expected error for non-canonical point encoding")
	}
}
