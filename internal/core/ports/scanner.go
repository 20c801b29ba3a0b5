package ports

import "context"

// UsageScanner counts how often each package is imported by the project's sources.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type UsageScanner interface {
	// Scan returns canonical package name -> import count for the tree under root.
	Scan(ctx context.Context, root string) (map[string]int, error)
}
