package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type DirectorTag struct{}

var DirectorTagComponent = NewComponent[DirectorTag]()

// Prop is an editable level volume. ID is stable across edits and exports.
type Prop struct {
	ID   string
	Role string
	Size [3]float64
}

var PropComponent = NewComponent[Prop]()

// Visual names the asset template an entity is drawn with.
type Visual struct {
	Model string
}

var VisualComponent = NewComponent[Visual]()
