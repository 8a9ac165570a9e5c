package source

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mfriedel/vsimap/pkg/errors"
	"github.com/mfriedel/vsimap/pkg/vsi"
)

// Source supplies the full, ordered VSI record collection.
// Each Fetch returns a complete dataset that replaces the previous one
// wholesale; sources never merge.
type Source interface {
	// Fetch retrieves the current record collection.
	Fetch(ctx context.Context) ([]vsi.Record, error)

	// Name identifies the source for logs and error messages.
	Name() string
}

// DecodeRecords decodes a JSON record collection and validates the caller
// contract. Any record without an ID fails the whole decode with an
// INVALID_RECORD error.
func DecodeRecords(r io.Reader) ([]vsi.Record, error) {
	var records []vsi.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
	}

	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
		}
	}
	return records, nil
}
