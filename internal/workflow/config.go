package workflow

import "fmt"

// Models selectable on an LLM Engine node.
const (
	ModelGPT35Turbo = "gpt-3.5-turbo"
	ModelGPT4       = "gpt-4"
	ModelClaude3    = "claude-3"
)

// Formats selectable on an Output node.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// DocumentRef points at a document held by the upload service. The editor
// never mutates these; the upload collaborator appends them.
type DocumentRef struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	WordCount  int    `json:"word_count"`
}

// NodeConfig is the per-kind configuration record attached to a node.
// Each kind carries its own strongly typed variant; Merge applies a
// partial update keyed by option name, rejecting keys outside the
// kind's schema and values outside their domain. Merge returns a new
// record and never modifies the receiver, so a failed update leaves
// the node untouched.
type NodeConfig interface {
	ConfigKind() Kind
	Options() map[string]any
	Merge(partial map[string]any) (NodeConfig, error)

	clone() NodeConfig
}

type UserQueryConfig struct {
	Placeholder string `json:"placeholder"`
}

func (c UserQueryConfig) ConfigKind() Kind { return KindUserQuery }

func (c UserQueryConfig) Options() map[string]any {
	return map[string]any{"placeholder": c.Placeholder}
}

func (c UserQueryConfig) Merge(partial map[string]any) (NodeConfig, error) {
	out := c
	for key, val := range partial {
		switch key {
		case "placeholder":
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: placeholder must be a string", ErrInvalidConfigValue)
			}
			out.Placeholder = s
		default:
			return nil, fmt.Errorf("%w: %q on %s", ErrInvalidConfigKey, key, KindUserQuery)
		}
	}
	return out, nil
}

func (c UserQueryConfig) clone() NodeConfig { return c }

type KnowledgeBaseConfig struct {
	Documents []DocumentRef `json:"documents"`
}

func (c KnowledgeBaseConfig) ConfigKind() Kind { return KindKnowledgeBase }

func (c KnowledgeBaseConfig) Options() map[string]any {
	docs := make([]DocumentRef, len(c.Documents))
	copy(docs, c.Documents)
	return map[string]any{"documents": docs}
}

func (c KnowledgeBaseConfig) Merge(partial map[string]any) (NodeConfig, error) {
	out := c.clone().(KnowledgeBaseConfig)
	for key, val := range partial {
		switch key {
		case "documents":
			docs, ok := val.([]DocumentRef)
			if !ok {
				return nil, fmt.Errorf("%w: documents must be a list of document references", ErrInvalidConfigValue)
			}
			out.Documents = make([]DocumentRef, len(docs))
			copy(out.Documents, docs)
		default:
			return nil, fmt.Errorf("%w: %q on %s", ErrInvalidConfigKey, key, KindKnowledgeBase)
		}
	}
	return out, nil
}

func (c KnowledgeBaseConfig) clone() NodeConfig {
	docs := make([]DocumentRef, len(c.Documents))
	copy(docs, c.Documents)
	return KnowledgeBaseConfig{Documents: docs}
}

type LlmEngineConfig struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

func (c LlmEngineConfig) ConfigKind() Kind { return KindLlmEngine }

func (c LlmEngineConfig) Options() map[string]any {
	return map[string]any{"model": c.Model, "temperature": c.Temperature}
}

func (c LlmEngineConfig) Merge(partial map[string]any) (NodeConfig, error) {
	out := c
	for key, val := range partial {
		switch key {
		case "model":
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: model must be a string", ErrInvalidConfigValue)
			}
			switch s {
			case ModelGPT35Turbo, ModelGPT4, ModelClaude3:
			default:
				return nil, fmt.Errorf("%w: unsupported model %q", ErrInvalidConfigValue, s)
			}
			out.Model = s
		case "temperature":
			f, ok := asFloat(val)
			if !ok {
				return nil, fmt.Errorf("%w: temperature must be a number", ErrInvalidConfigValue)
			}
			if f < 0.0 || f > 1.0 {
				return nil, fmt.Errorf("%w: temperature %v outside [0.0, 1.0]", ErrInvalidConfigValue, f)
			}
			out.Temperature = f
		default:
			return nil, fmt.Errorf("%w: %q on %s", ErrInvalidConfigKey, key, KindLlmEngine)
		}
	}
	return out, nil
}

func (c LlmEngineConfig) clone() NodeConfig { return c }

type OutputConfig struct {
	Format string `json:"format"`
}

func (c OutputConfig) ConfigKind() Kind { return KindOutput }

func (c OutputConfig) Options() map[string]any {
	return map[string]any{"format": c.Format}
}

func (c OutputConfig) Merge(partial map[string]any) (NodeConfig, error) {
	out := c
	for key, val := range partial {
		switch key {
		case "format":
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: format must be a string", ErrInvalidConfigValue)
			}
			switch s {
			case FormatText, FormatJSON, FormatMarkdown, FormatHTML:
			default:
				return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidConfigValue, s)
			}
			out.Format = s
		default:
			return nil, fmt.Errorf("%w: %q on %s", ErrInvalidConfigKey, key, KindOutput)
		}
	}
	return out, nil
}

func (c OutputConfig) clone() NodeConfig { return c }

// asFloat accepts the numeric representations JSON decoding and typed
// callers produce for a temperature value.
func asFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
