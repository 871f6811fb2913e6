package importer

import (
	"context"
	"io"
)

// Service runs CSV imports against the catalog repositories.
type Service struct {
	products   ProductWriter
	categories CategoryWriter
}

func NewService(products ProductWriter, categories CategoryWriter) *Service {
	return &Service{products: products, categories: categories}
}

func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	return NewCSVImporter(r, s.products, s.categories).Run(ctx)
}
