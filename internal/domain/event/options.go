package event

// ListOptions provides filtering options for listing events.
type ListOptions struct {
	ProjectID *uint64
	Type      *Type
	Limit     int
	Offset    int
}
