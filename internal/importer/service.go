package importer

import (
	"fmt"
	"io"

	"github.com/kmccarty/tradeops/internal/catalog"
	"github.com/kmccarty/tradeops/internal/importer/pricebook"
)

type Service struct {
	pricebookParser Parser
}

func NewService() *Service {
	return &Service{
		pricebookParser: pricebook.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]catalog.CreateParams, error) {
	var parser Parser

	switch format {
	case FormatPricebook:
		parser = s.pricebookParser
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return parser.Parse(r)
}
