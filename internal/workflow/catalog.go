package workflow

// Kind identifies a placeable component in the palette.
type Kind string

const (
	KindUserQuery     Kind = "userQuery"
	KindKnowledgeBase Kind = "knowledgeBase"
	KindLlmEngine     Kind = "llmEngine"
	KindOutput        Kind = "output"
)

// Component is a catalog entry: the static description of a node kind
// plus the factory for its default configuration.
type Component struct {
	Kind        Kind
	Label       string
	Icon        string
	Description string
}

// DefaultConfig returns a fresh configuration record for the component,
// pre-filled with the palette defaults.
func (c Component) DefaultConfig() NodeConfig {
	switch c.Kind {
	case KindUserQuery:
		return UserQueryConfig{Placeholder: "Ask a question about your documents..."}
	case KindKnowledgeBase:
		return KnowledgeBaseConfig{}
	case KindLlmEngine:
		return LlmEngineConfig{Model: ModelGPT35Turbo, Temperature: 0.7}
	case KindOutput:
		return OutputConfig{Format: FormatText}
	}
	return nil
}

// The catalog is fixed at compile time; the editor has no dynamic
// component registration.
var catalog = map[Kind]Component{
	KindUserQuery: {
		Kind:        KindUserQuery,
		Label:       "User Query",
		Icon:        "message-circle",
		Description: "Entry point where the user types a question",
	},
	KindKnowledgeBase: {
		Kind:        KindKnowledgeBase,
		Label:       "Knowledge Base",
		Icon:        "database",
		Description: "Uploaded documents the pipeline can draw context from",
	},
	KindLlmEngine: {
		Kind:        KindLlmEngine,
		Label:       "LLM Engine",
		Icon:        "cpu",
		Description: "Language model that answers using the retrieved context",
	},
	KindOutput: {
		Kind:        KindOutput,
		Label:       "Output",
		Icon:        "monitor",
		Description: "Final response shown to the user",
	},
}

var kindOrder = []Kind{KindUserQuery, KindKnowledgeBase, KindLlmEngine, KindOutput}

// Lookup returns the catalog entry for a kind.
func Lookup(kind Kind) (Component, bool) {
	c, ok := catalog[kind]
	return c, ok
}

// Kinds lists the catalog kinds in palette order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}
