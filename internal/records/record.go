package records

import (
	"encoding/json"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

// Record is a stored record with typed fields.
type Record[F any] struct {
	ID        string  `json:"record_id"`
	CreatedAt string  `json:"createdat"`
	UpdatedAt *string `json:"updatedat"`
	Fields    F       `json:"fields"`
}

func decode[F any](raw recordstore.Record) (Record[F], error) {
	rec := Record[F]{ID: raw.ID, CreatedAt: raw.CreatedAt, UpdatedAt: raw.UpdatedAt}
	if len(raw.Fields) > 0 {
		if err := json.Unmarshal(raw.Fields, &rec.Fields); err != nil {
			return Record[F]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode record fields").
				WithDetails(map[string]any{"record_id": raw.ID})
		}
	}
	return rec, nil
}

func decodeAll[F any](raws []recordstore.Record) ([]Record[F], error) {
	out := make([]Record[F], 0, len(raws))
	for _, raw := range raws {
		rec, err := decode[F](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Index keys records by id. The later of two duplicate ids wins.
func Index[F any](list []Record[F]) map[string]Record[F] {
	out := make(map[string]Record[F], len(list))
	for _, rec := range list {
		out[rec.ID] = rec
	}
	return out
}
