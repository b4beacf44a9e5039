package domain

// ShapeID is the opaque handle the Map Surface assigns to a drawn polygon.
// Nothing beyond uniqueness and stability for the shape's lifetime is assumed.
type ShapeID string

// MarkerID is the opaque handle of a vertex marker overlay.
type MarkerID string

// Style is the mutable visual style of a shape overlay.
type Style struct {
	Color string `json:"color"`
}

// Shape is one user-drawn polygon and what is known about it.
type Shape struct {
	ID            ShapeID `json:"id"`
	Area          string  `json:"area"` // km², two decimals
	Country       string  `json:"country"`
	Price         string  `json:"price"`
	Highlighted   bool    `json:"highlighted"`
	OriginalStyle *Style  `json:"original_style,omitempty"`
}

// Annotated reports whether both metadata fields are filled in.
// Only annotated shapes are surfaced in the list panel.
func (s Shape) Annotated() bool {
	return s.Country != "" && s.Price != ""
}

// Field names a metadata field editable from the list panel.
type Field string

const (
	FieldCountry Field = "country"
	FieldPrice   Field = "price"
)

// PendingEdit is a buffered, uncommitted metadata change made in the list panel.
type PendingEdit struct {
	Country string `json:"country"`
	Price   string `json:"price"`
}

// EditorView is what the metadata editor shows for its bound shape.
type EditorView struct {
	ShapeID ShapeID `json:"shape_id"`
	Area    string  `json:"area"`
	Country string  `json:"country"`
	Price   string  `json:"price"`
}

// ListRow is one rendered row of the list panel.
type ListRow struct {
	ShapeID     ShapeID `json:"shape_id"`
	Area        string  `json:"area"`
	Country     string  `json:"country"`
	Price       string  `json:"price"`
	Highlighted bool    `json:"highlighted"`
	Pending     bool    `json:"pending"`
}

// ListView is a full render of the list panel.
type ListView struct {
	Rows        []ListRow `json:"rows"`
	ShowSaveAll bool      `json:"show_save_all"`
}

// ChangeKind classifies a committed registry change for the change feed.
type ChangeKind string

const (
	ChangeCreated     ChangeKind = "created"
	ChangeReshaped    ChangeKind = "reshaped"
	ChangeAnnotated   ChangeKind = "annotated"
	ChangeHighlighted ChangeKind = "highlighted"
	ChangeDeleted     ChangeKind = "deleted"
)

// ShapeChange is published after a registry mutation has been applied.
type ShapeChange struct {
	SessionID string     `json:"session_id"`
	Kind      ChangeKind `json:"kind"`
	Shape     Shape      `json:"shape"`
}
