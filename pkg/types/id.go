package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an identifier that clients may send either as a JSON string or a JSON number.
// It is always carried as its decimal/string form; the zero value means "absent".
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Int64 parses the identifier as a positive integer, the shape ERP record ids take.
func (id ID) Int64() (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(string(id)), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// IDFromInt64 renders an ERP record id.
func IDFromInt64(v int64) ID {
	return ID(strconv.FormatInt(v, 10))
}
