package ports

import "context"

// Committer records persisted updates in version control.
//
//go:generate go run go.uber.org/mock/mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type Committer interface {
	// Commit stages paths and commits them with message. It returns the commit id.
	Commit(ctx context.Context, message string, paths ...string) (string, error)
}
