package dex

import (
	"testing"

	"solana-wallet-monitor/internal/domain"
)

func TestClassifier_Jupiter(t *testing.T) {
	c := NewClassifier(NewRegistry())

	logs := []string{
		"Program ComputeBudget111111111111111111111111111111 invoke [1]",
		"Program " + Jupiter + " invoke [1]",
		"Program log: Instruction: Route",
		"Program " + Jupiter + " success",
	}

	id := c.Identify(logs)
	if id.Dex != "Jupiter" {
		t.Fatalf("expected Jupiter, got %q", id.Dex)
	}
	if id.Operation != domain.OperationSwap {
		t.Errorf("expected swap operation, got %q", id.Operation)
	}
}

func TestClassifier_MintAuthorityPriority(t *testing.T) {
	c := NewClassifier(NewRegistry())

	// Both the pump.fun program and its mint authority appear; the more
	// specific mint authority must determine the operation kind.
	logs := []string{
		"Program " + PumpFun + " invoke [1]",
		"Program log: Instruction: Create",
		"Program log: mint authority " + PumpFunMintAuthority,
		"Program " + PumpFun + " success",
	}

	id := c.Identify(logs)
	if id.Dex != "Pump.fun" {
		t.Fatalf("expected Pump.fun, got %q", id.Dex)
	}
	if id.Operation != domain.OperationMint {
		t.Errorf("expected mint operation, got %q", id.Operation)
	}
}

func TestClassifier_PumpFunSwap(t *testing.T) {
	c := NewClassifier(NewRegistry())

	logs := []string{
		"Program " + PumpFun + " invoke [1]",
		"Program log: Instruction: Buy",
	}

	id := c.Identify(logs)
	if id.Dex != "Pump.fun" || id.Operation != domain.OperationSwap {
		t.Errorf("expected Pump.fun swap, got %q %q", id.Dex, id.Operation)
	}
}

func TestClassifier_NoMatch(t *testing.T) {
	c := NewClassifier(NewRegistry())

	logs := []string{
		"Program 11111111111111111111111111111111 invoke [1]",
		"Program 11111111111111111111111111111111 success",
	}

	if id := c.Identify(logs); id.Known() {
		t.Errorf("expected unknown identification, got %+v", id)
	}
}

func TestClassifier_EmptyLogs(t *testing.T) {
	c := NewClassifier(NewRegistry())

	if id := c.Identify(nil); id.Known() {
		t.Errorf("nil logs: expected unknown, got %+v", id)
	}
	if id := c.Identify([]string{}); id.Known() {
		t.Errorf("empty logs: expected unknown, got %+v", id)
	}
}

func TestClassifier_RegisterNewProgram(t *testing.T) {
	r := NewRegistry()
	r.Register(Entry{
		ProgramID: "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc",
		Dex:       "Orca",
		Operation: domain.OperationSwap,
	})
	c := NewClassifier(r)

	id := c.Identify([]string{"Program whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc invoke [1]"})
	if id.Dex != "Orca" {
		t.Errorf("expected Orca, got %q", id.Dex)
	}
}
