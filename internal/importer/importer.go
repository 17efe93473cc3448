// Package importer turns catalog price-list CSV exports into catalog
// create params. Legacy exports arrive in assorted encodings and with
// assorted column headings, so parsing starts with charset detection
// and header matching.
package importer

import (
	"io"

	"github.com/oscarfh/bizdesk/internal/catalog"
)

type Service struct {
	parser *Parser
}

func NewService() *Service {
	return &Service{parser: NewParser()}
}

func (s *Service) Import(r io.Reader) ([]catalog.CreateParams, error) {
	return s.parser.Parse(r)
}
