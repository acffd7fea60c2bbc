package session

// WindowSpec is one {from,to} pair in packed wall-clock form, as written
// in sessions files and emitted by Describe.
type WindowSpec struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

// Spec is the wire shape of one session definition. Times are in the
// session's declared wall-clock convention; Offset shifts them onto the
// canonical timeline at construction. Products optionally binds futures
// product codes to this session for Registry.Resolve.
type Spec struct {
	Name     string       `yaml:"name" json:"name"`
	Offset   int          `yaml:"offset" json:"offset"`
	Auction  *WindowSpec  `yaml:"auction,omitempty" json:"auction,omitempty"`
	Sections []WindowSpec `yaml:"sections" json:"sections"`
	Products []string     `yaml:"products,omitempty" json:"products,omitempty"`
}
