// backend/src/parsers/parser.go
package parsers

import (
	"io"

	"github.com/username/volumebets/backend/src/models"
)

// Parser turns an export stream into the canonical bet sheet.
type Parser interface {
	Parse(file io.Reader) (*models.BetSheet, error)
}
