package repository

import (
	"context"
	"encoding/json"

	"tableflip.dev/taxoselect/pkg/taxon"
)

// Service is the lookup collaborator the picker talks to. Implementations
// must be safe to call from command goroutines; Search and FetchValidForm
// are invoked off the event loop.
type Service interface {
	// Configure restricts the service to the host supplied repositories.
	// An empty list means every known repository.
	Configure(repos []taxon.Descriptor)
	// RepositoriesForLevel lists the configured repositories applicable to
	// level. Unknown levels fail with an error wrapping ErrUnknownLevel.
	RepositoriesForLevel(level string) ([]taxon.Descriptor, error)
	// Search returns the standardized candidates for text.
	Search(ctx context.Context, repo, text string, keepRaw bool) ([]taxon.Record, error)
	// FetchValidForm returns the raw accepted name for a synonym.
	FetchValidForm(ctx context.Context, repo, nameID, taxonID string) (json.RawMessage, error)
	// StandardizeValidForm converts a raw accepted name into a record.
	StandardizeValidForm(repo string, raw json.RawMessage) (taxon.Record, error)
	// DescribeRepository returns the display label of repo.
	DescribeRepository(repo string) string
}
