package ports

import "go.trai.ch/upkeep/internal/core/domain"

// RequirementsStore is the durable requirements ledger.
//
//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks
type RequirementsStore interface {
	// Read parses the ledger. It returns domain.ErrLedgerMissing if the file does not exist.
	Read() (domain.Ledger, error)

	// Write atomically replaces the ledger with the given set.
	// It returns domain.ErrLedgerWriteFailed if the file cannot be replaced.
	Write(set *domain.RequirementsSet) error

	// Path returns the ledger location.
	Path() string
}
