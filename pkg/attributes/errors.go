package attributes

import "fmt"

// AttributeError is the typed failure mode of storage merge/split
// operations (spec.md §4.5/§4.6).
type AttributeError struct {
	Kind     AttributeErrorKind
	Op       string
	TypeName string
}

// AttributeErrorKind enumerates the ways an attribute merge/split can fail.
type AttributeErrorKind int

const (
	// InsufficientData means a merge/split needed a value that was absent
	// and the attribute type declared no rule to cover that case (e.g.
	// merging two none values without a MergeFromNone implementation).
	InsufficientData AttributeErrorKind = iota
	// FailedMerge means user code rejected a merge.
	FailedMerge
	// FailedSplit means user code rejected a split.
	FailedSplit
)

func (e *AttributeError) Error() string {
	switch e.Kind {
	case InsufficientData:
		return fmt.Sprintf("insufficient data for %s on attribute %s", e.Op, e.TypeName)
	case FailedMerge:
		return fmt.Sprintf("merge rejected for attribute %s", e.TypeName)
	case FailedSplit:
		return fmt.Sprintf("split rejected for attribute %s", e.TypeName)
	default:
		return "attribute error"
	}
}
