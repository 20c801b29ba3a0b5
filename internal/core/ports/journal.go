package ports

import "go.trai.ch/upkeep/internal/core/domain"

// UpdateJournal keeps a human-readable log of persisted upgrades and their metrics.
//
//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=mocks/mock_journal.go -package=mocks
type UpdateJournal interface {
	// Append records one persisted upgrade.
	Append(record domain.UpdateRecord) error
	// Path returns the journal location.
	Path() string
}
