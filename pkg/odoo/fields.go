package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var jsonFalse = []byte("false")

// String decodes an Odoo char field, which is `false` when empty.
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonFalse) || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = String(v)
	return nil
}

// Many2One decodes a relational field returned as `[id, "display name"]` or `false`.
type Many2One struct {
	ID   int64
	Name string
}

func (m *Many2One) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonFalse) || bytes.Equal(data, []byte("null")) {
		*m = Many2One{}
		return nil
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("odoo: many2one: %w", err)
	}
	if len(pair) == 0 {
		*m = Many2One{}
		return nil
	}
	if err := json.Unmarshal(pair[0], &m.ID); err != nil {
		return fmt.Errorf("odoo: many2one id: %w", err)
	}
	if len(pair) > 1 {
		var name String
		if err := json.Unmarshal(pair[1], &name); err != nil {
			return fmt.Errorf("odoo: many2one name: %w", err)
		}
		m.Name = string(name)
	}
	return nil
}
