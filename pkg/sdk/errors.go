package wisdom

import "github.com/kailas-cloud/wisdom/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound       = domain.ErrNotFound
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrDatasetCorrupt = domain.ErrDatasetCorrupt
)
