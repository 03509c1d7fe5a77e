package mapping

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Key identifies one external catalog entry. Name labels a placeholder row
// when the entry has never been seen.
type Key struct {
	OrganizationID    string
	IntegrationID     string
	ExternalProductID string
	Name              string
}

type UseCase interface {
	Resolve(ctx context.Context, key Key) (*model.Resolution, error)
}

// UnresolvedMappingError is the expected per-line failure when a POS product
// has no confirmed product or recipe mapping.
type UnresolvedMappingError struct {
	ExternalProductID string
	POSProductID      string
	Placeholder       bool
}

func (e *UnresolvedMappingError) Error() string {
	if e.Placeholder {
		return fmt.Sprintf("POS product %s was not in the catalog; placeholder created, mapping required", e.ExternalProductID)
	}
	return fmt.Sprintf("no confirmed product or recipe mapping for POS product %s", e.ExternalProductID)
}
