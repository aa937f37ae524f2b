// Package resource implements the list/filter/mutate pattern shared by every managed
// resource: a store holding the collection, a remote adapter, a local fallback snapshot
// and an orchestrator that applies mutations network-first with a local fallback.
package resource

// Entity is implemented by every resource record. WithID must return a copy and leave
// the receiver untouched.
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
}

// Op tags a mutation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

func (o Op) pastTense() string {
	switch o {
	case OpCreate:
		return "created"
	case OpUpdate:
		return "updated"
	case OpDelete:
		return "deleted"
	default:
		return string(o)
	}
}
