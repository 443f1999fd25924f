package dex

import (
	"strings"

	"solana-wallet-monitor/internal/domain"
)

// Classifier decides which DEX (if any) a transaction's log lines belong to.
type Classifier struct {
	registry *Registry
}

// NewClassifier creates a classifier over the given registry.
func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Identify scans the log lines for known program identifiers in registry
// priority order. The first entry whose program ID appears in any line wins.
// Empty or absent logs yield an unknown identification, never an error.
func (c *Classifier) Identify(logs []string) domain.DexIdentification {
	if len(logs) == 0 {
		return domain.DexIdentification{}
	}

	for _, entry := range c.registry.Entries() {
		for _, line := range logs {
			if strings.Contains(line, entry.ProgramID) {
				return domain.DexIdentification{
					Dex:       entry.Dex,
					Operation: entry.Operation,
				}
			}
		}
	}

	return domain.DexIdentification{}
}
