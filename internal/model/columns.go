package model

import (
	"database/sql/driver"
	"encoding/json"
)

// StringList is a string sequence stored as a JSON array in a single text
// column. Scan never fails: unreadable content is kept in Raw with Corrupt
// set so the codec can report it and fall back.
type StringList struct {
	Items   []string
	Raw     string
	Corrupt bool
}

// NewStringList wraps items for storage.
func NewStringList(items []string) StringList {
	return StringList{Items: items}
}

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l.Items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l.Items)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{Items: []string{}}

	var raw []byte
	switch v := value.(type) {
	case nil:
		l.Corrupt = true
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		l.Corrupt = true
		return nil
	}

	l.Raw = string(raw)
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		l.Corrupt = true
		return nil
	}
	if items != nil {
		l.Items = items
	}
	return nil
}

// JSONBlob is an opaque JSON document stored as text. It is written as a
// string so postgres does not receive it as bytea.
type JSONBlob []byte

func (b JSONBlob) Value() (driver.Value, error) {
	return string(b), nil
}

func (b *JSONBlob) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*b = append((*b)[:0], v...)
	case string:
		*b = JSONBlob(v)
	default:
		*b = nil
	}
	return nil
}
