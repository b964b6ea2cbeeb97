package models

import "fmt"

// Namespace is a named partition isolating the other records.
// It has no spec body beyond its metadata.
type Namespace struct {
	APIVersion string   `json:"apiVersion" yaml:"apiVersion"`
	Kind       string   `json:"kind" yaml:"kind"`
	Metadata   Metadata `json:"metadata" yaml:"metadata"`
}

func (n *Namespace) GetKind() string      { return "Namespace" }
func (n *Namespace) GetName() string      { return n.Metadata.Name }
func (n *Namespace) GetNamespace() string { return "" }

func (n *Namespace) Validate() error {
	if n.APIVersion == "" {
		return fmt.Errorf("apiVersion is required")
	}
	if n.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	return nil
}
