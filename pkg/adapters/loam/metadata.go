package loam

// DefinitionMetadata is the frontmatter of a definition document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type DefinitionMetadata struct {
	ID       string   `json:"id" mapstructure:"id"`
	Name     string   `json:"name" mapstructure:"name"`
	States   []string `json:"states" mapstructure:"states"`
	Alphabet []string `json:"alphabet" mapstructure:"alphabet"`

	// Transitions holds either notation strings ("q0:a->q1") or
	// maps with from/symbol/to keys. Both forms may be mixed.
	Transitions []any `json:"transitions" mapstructure:"transitions"`

	InitialState    string   `json:"initial_state" mapstructure:"initial_state"`
	InitialStates   []string `json:"initial_states" mapstructure:"initial_states"`
	AcceptingStates []string `json:"accepting_states" mapstructure:"accepting_states"`
}

// LoaderTransition is the map form of a single transition.
type LoaderTransition struct {
	From   string `json:"from" mapstructure:"from"`
	Symbol string `json:"symbol" mapstructure:"symbol"`
	To     string `json:"to" mapstructure:"to"`
}
