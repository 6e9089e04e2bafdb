package component

// Tag classifies an entity for target filtering.
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]()
