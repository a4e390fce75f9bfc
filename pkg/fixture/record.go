package fixture

import "strconv"

// Record is one generated row: a zero-based id and a name drawn from the pool.
type Record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AppendJSON appends the single-line form {"id":<id>,"name":"<name>"} to dst.
// Names are not escaped; NamePool rejects anything that would need it.
func (r Record) AppendJSON(dst []byte) []byte {
	dst = append(dst, `{"id":`...)
	dst = strconv.AppendInt(dst, r.ID, 10)
	dst = append(dst, `,"name":"`...)
	dst = append(dst, r.Name...)
	return append(dst, `"}`...)
}

// String returns the record line without the trailing newline.
func (r Record) String() string {
	return string(r.AppendJSON(nil))
}
