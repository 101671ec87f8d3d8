package sqlite

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

// encodeList stores a slice column. Nil slices are written as [] so the
// NOT NULL columns never see SQL NULL.
func encodeList(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil || bytes.Equal(b, []byte("null")) {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

func encodeObject(raw json.RawMessage) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(trimmed)
}

func encodeValue(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// decodeInto reads a stored document into out. A malformed document leaves
// out untouched and is reported through the repository logger.
func (r *Repository) decodeInto(raw datatypes.JSON, out any, table, column string, id uint) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		r.log.Warn().Err(err).Str("table", table).Str("column", column).Uint("id", id).Msg("malformed json column treated as empty")
	}
}

func (r *Repository) decodeObject(raw datatypes.JSON, table, column string, id uint) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("{}")
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		r.log.Warn().Str("table", table).Str("column", column).Uint("id", id).Msg("malformed json object treated as empty")
		return json.RawMessage("{}")
	}
	return json.RawMessage(trimmed)
}

func stringList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
