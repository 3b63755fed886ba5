package postgres

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// arrayParam binds a Go slice as a PostgreSQL array parameter. The value is
// encoded by pgtype in text format, so it works through database/sql with
// any driver and still round-trips through the pgx codecs.
type arrayParam struct {
	oid   uint32
	value any
}

// Value implements driver.Valuer.
func (a arrayParam) Value() (driver.Value, error) {
	buf, err := pgtype.NewMap().Encode(a.oid, pgtype.TextFormatCode, a.value, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encode array parameter: %w", err)
	}
	if buf == nil {
		return nil, nil
	}
	return string(buf), nil
}

// uuidArray binds ids as a uuid[] parameter.
func uuidArray(ids []uuid.UUID) driver.Valuer {
	texts := make([]string, len(ids))
	for i, id := range ids {
		texts[i] = id.String()
	}
	return arrayParam{oid: pgtype.UUIDArrayOID, value: texts}
}

// directionArray binds dirs as a text[] parameter.
func directionArray(dirs []domain.Direction) driver.Valuer {
	texts := make([]string, len(dirs))
	for i, d := range dirs {
		texts[i] = string(d)
	}
	return arrayParam{oid: pgtype.TextArrayOID, value: texts}
}

// uuidList scans a uuid[] column. NULL scans as an empty list.
type uuidList []uuid.UUID

// Scan implements sql.Scanner.
func (l *uuidList) Scan(src any) error {
	var texts []string
	if err := pgtype.NewMap().SQLScanner(&texts).Scan(src); err != nil {
		return fmt.Errorf("failed to scan uuid array: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(texts))
	for _, t := range texts {
		id, err := uuid.Parse(t)
		if err != nil {
			return fmt.Errorf("invalid uuid %q in array: %w", t, err)
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}
