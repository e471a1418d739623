package routes

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// SaveRouteInput carries a new route to persist. Name and the labels are
// optional; MobilityMethod falls back to MobilityType when empty.
type SaveRouteInput struct {
	Name *string

	Origin      string
	Destination string

	OriginLabel      *string
	DestinationLabel *string

	MobilityType   string
	MobilityMethod string
	RouteType      string
}

// UpdateRouteInput is a partial merge over the stored route. Unspecified
// fields keep their stored values; null clears nullable fields.
type UpdateRouteInput struct {
	// Name is trimmed; null clears it.
	Name Optional[string]

	Origin      Optional[string]
	Destination Optional[string]

	OriginLabel      Optional[string]
	DestinationLabel Optional[string]

	MobilityType   Optional[string]
	MobilityMethod Optional[string]
	RouteType      Optional[string]
}
