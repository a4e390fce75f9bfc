package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ParseRecord decodes one line (without its newline) back into a Record.
// The line must be a JSON object holding exactly "id" and "name", the id a
// non-negative integer and the name a string.
func ParseRecord(line []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return Record{}, fmt.Errorf("not a JSON object: %v", err)
	}
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("%d fields, want id and name", len(fields))
	}

	var rec Record
	rawID, ok := fields["id"]
	if !ok {
		return Record{}, errors.New("missing id")
	}
	if err := json.Unmarshal(rawID, &rec.ID); err != nil {
		return Record{}, fmt.Errorf("id is not an integer: %s", bytes.TrimSpace(rawID))
	}
	if rec.ID < 0 {
		return Record{}, fmt.Errorf("negative id %d", rec.ID)
	}
	rawName, ok := fields["name"]
	if !ok {
		return Record{}, errors.New("missing name")
	}
	if err := json.Unmarshal(rawName, &rec.Name); err != nil {
		return Record{}, fmt.Errorf("name is not a string: %s", bytes.TrimSpace(rawName))
	}
	return rec, nil
}
