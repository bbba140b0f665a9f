package snapshot

import "fmt"

// NotFoundError reports that a name or version has no matching record.
type NotFoundError struct {
	Name    string
	Version uint32
}

func (e *NotFoundError) Error() string {
	if e.Version == 0 {
		return fmt.Sprintf("snapshot %q not found", e.Name)
	}
	return fmt.Sprintf("snapshot %q version %d not found", e.Name, e.Version)
}
