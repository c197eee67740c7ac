// Package permutation serves term expansion requests.
package permutation

import (
	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/search/permutation"
)

// MaxTerms caps the number of terms per expansion request.
const MaxTerms = 1000

// Service expands terms into variants.
type Service struct{}

// New creates a permutation service.
func New() *Service { return &Service{} }

// Expand maps each term to its variants under the named strategy.
// Unknown strategies return every term unchanged.
func (s *Service) Expand(terms []string, strategy string, params map[string]any) (permutation.Map, error) {
	if len(terms) == 0 {
		return nil, domain.NewInvalidRequest("terms must be non-empty")
	}
	if len(terms) > MaxTerms {
		return nil, domain.NewInvalidRequest("too many terms (max %d)", MaxTerms)
	}
	return permutation.Expand(terms, permutation.Strategy(strategy), params), nil
}
