package models

// Metadata is shared by every manifest record.
type Metadata struct {
	Name      string            `json:"name" yaml:"name"`
	Namespace string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	UID       string            `json:"uid,omitempty" yaml:"uid,omitempty"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"` // e.g., {"app": "nginx-app"}
}

// Resource is implemented by every record kind that can appear in a manifest.
type Resource interface {
	GetKind() string
	GetName() string
	GetNamespace() string
	Validate() error
}

// MatchLabels reports whether every key/value in selector is present in labels.
// An empty selector matches nothing.
func MatchLabels(labels, selector map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	for key, value := range selector {
		if labels[key] != value {
			return false
		}
	}
	return true
}
