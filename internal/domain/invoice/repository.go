package invoice

import (
	"context"

	"github.com/garagebill/garagebill/internal/types"
)

// RecordSource supplies raw appointment/service records by id. The returned
// shape is untyped and partial; the mapper owns all interpretation. A missing
// record must surface as an error marked ierr.ErrRecordNotFound.
type RecordSource interface {
	FetchByID(ctx context.Context, id string) (types.Record, error)
}
