package matching

// ToolRecord is one row of the verified inventory. Name and Vendor drive
// matching; every other column is opaque payload carried in Fields so the
// renderers can echo it back untouched. Records have no stable primary
// key: identity is positional within a snapshot and duplicates are
// matched independently.
type ToolRecord struct {
	Name   string
	Vendor string
	Status string
	Fields map[string]string
}

// Snapshot is an immutable, in-memory view of one inventory version.
// A snapshot with zero records is valid: it means "no data", which is
// not evidence of non-existence (every scan row resolves to review).
type Snapshot struct {
	Version int
	Records []ToolRecord
}

func (s *Snapshot) RowCount() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
