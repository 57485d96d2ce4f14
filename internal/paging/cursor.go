package paging

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidCursor        = errors.New("invalid cursor")
	ErrInsufficientSortKeys = errors.New("keyset pagination requires at least 2 sort keys")
	ErrInvalidLimit         = errors.New("limit must be a positive integer")
)

var tokenEncoding = base64.RawURLEncoding

type envelope struct {
	Data RowSnapshot `json:"data"`
	Sort []string    `json:"sort"`
}

// EncodeCursor serializes the last row's sort-key values together with the
// ordering they were taken under. Equal inputs always give equal tokens.
func EncodeCursor(data RowSnapshot, sort SortSpec) (token string, err error) {
	payload, err := json.Marshal(envelope{Data: data, Sort: sort.Canonical()})
	if err != nil {
		err = fmt.Errorf("failed to encode cursor: %w", err)
		return
	}
	token = tokenEncoding.EncodeToString(payload)
	return
}

// Envelope is a decoded but not yet type-checked cursor.
type Envelope struct {
	Data map[string]json.RawMessage
	Sort []string
}

// Decode checks that token is a well-formed cursor envelope. Field values are
// left raw until Bind resolves them against a SortSpec.
func Decode(token string) (env Envelope, err error) {
	payload, err := tokenEncoding.DecodeString(token)
	if err != nil {
		err = fmt.Errorf("%w: not base64url encoded", ErrInvalidCursor)
		return
	}
	var raw struct {
		Data map[string]json.RawMessage `json:"data"`
		Sort []string                   `json:"sort"`
	}
	if err = json.Unmarshal(payload, &raw); err != nil {
		err = fmt.Errorf("%w: malformed payload", ErrInvalidCursor)
		return
	}
	if raw.Data == nil {
		err = fmt.Errorf("%w: missing data", ErrInvalidCursor)
		return
	}
	if len(raw.Sort) == 0 {
		err = fmt.Errorf("%w: missing sort", ErrInvalidCursor)
		return
	}
	for _, key := range raw.Sort {
		if _, _, keyErr := ParseSortKey(key); keyErr != nil {
			err = fmt.Errorf("%w: %s", ErrInvalidCursor, keyErr)
			return
		}
	}
	env = Envelope{Data: raw.Data, Sort: raw.Sort}
	return
}

// Bind resolves the envelope's values against sort. A cursor issued under a
// different ordering is rejected rather than reinterpreted.
func (env Envelope) Bind(sort SortSpec) (RowSnapshot, error) {
	if !sort.matches(env.Sort) {
		return nil, fmt.Errorf("%w: issued for ordering %v, expected %v", ErrInvalidCursor, env.Sort, sort.Canonical())
	}
	snapshot := make(RowSnapshot, len(sort))
	for _, key := range sort {
		raw, ok := env.Data[key.Field]
		if !ok {
			return nil, fmt.Errorf("%w: missing value for %s", ErrInvalidCursor, key.Field)
		}
		value, err := parseValue(key.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidCursor, key.Field, err)
		}
		snapshot[key.Field] = value
	}
	return snapshot, nil
}

func DecodeCursor(token string, sort SortSpec) (RowSnapshot, error) {
	env, err := Decode(token)
	if err != nil {
		return nil, err
	}
	return env.Bind(sort)
}
