package importer

import (
	"io"

	"github.com/kmccarty/tradeops/internal/catalog"
)

type Format string

const (
	FormatPricebook Format = "pricebook"
)

type Parser interface {
	Parse(r io.Reader) ([]catalog.CreateParams, error)
}
