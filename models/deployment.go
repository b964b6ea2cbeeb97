package models

import "fmt"

// Deployment declares a desired replica count and a pod template for the
// orchestrator to maintain.
type Deployment struct {
	APIVersion string         `json:"apiVersion" yaml:"apiVersion"`
	Kind       string         `json:"kind" yaml:"kind"`
	Metadata   Metadata       `json:"metadata" yaml:"metadata"`
	Spec       DeploymentSpec `json:"spec" yaml:"spec"`
}

type DeploymentSpec struct {
	Replicas int           `json:"replicas" yaml:"replicas"`
	Selector LabelSelector `json:"selector" yaml:"selector"`
	Template PodTemplate   `json:"template" yaml:"template"`
}

type LabelSelector struct {
	MatchLabels map[string]string `json:"matchLabels,omitempty" yaml:"matchLabels,omitempty"`
}

// PodTemplate is the template the orchestrator stamps out replicas from.
type PodTemplate struct {
	Metadata PodTemplateMetadata `json:"metadata" yaml:"metadata"`
	Spec     PodTemplateSpec     `json:"spec" yaml:"spec"`
}

type PodTemplateMetadata struct {
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

type PodTemplateSpec struct {
	Containers []Container `json:"containers" yaml:"containers"`
}

type Container struct {
	Name  string          `json:"name" yaml:"name"`
	Image string          `json:"image" yaml:"image"`
	Ports []ContainerPort `json:"ports,omitempty" yaml:"ports,omitempty"`
}

type ContainerPort struct {
	ContainerPort int `json:"containerPort" yaml:"containerPort"`
}

func (d *Deployment) GetKind() string      { return "Deployment" }
func (d *Deployment) GetName() string      { return d.Metadata.Name }
func (d *Deployment) GetNamespace() string { return d.Metadata.Namespace }

func (d *Deployment) Validate() error {
	if d.APIVersion == "" {
		return fmt.Errorf("apiVersion is required")
	}
	if d.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	if d.Spec.Replicas < 0 {
		return fmt.Errorf("spec.replicas cannot be negative, got %d", d.Spec.Replicas)
	}
	if len(d.Spec.Selector.MatchLabels) == 0 {
		return fmt.Errorf("spec.selector.matchLabels is required")
	}
	if len(d.Spec.Template.Metadata.Labels) == 0 {
		return fmt.Errorf("spec.template.metadata.labels is required")
	}
	// The orchestrator rejects a deployment whose selector does not
	// select its own template.
	if !labelsEqual(d.Spec.Selector.MatchLabels, d.Spec.Template.Metadata.Labels) {
		return fmt.Errorf("spec.selector.matchLabels %v does not match spec.template.metadata.labels %v",
			d.Spec.Selector.MatchLabels, d.Spec.Template.Metadata.Labels)
	}
	if len(d.Spec.Template.Spec.Containers) == 0 {
		return fmt.Errorf("spec.template.spec.containers must contain at least one container")
	}
	for i, c := range d.Spec.Template.Spec.Containers {
		if c.Name == "" {
			return fmt.Errorf("spec.template.spec.containers[%d]: name is required", i)
		}
		if c.Image == "" {
			return fmt.Errorf("spec.template.spec.containers[%d]: image is required", i)
		}
		for j, p := range c.Ports {
			if p.ContainerPort < 1 || p.ContainerPort > 65535 {
				return fmt.Errorf("spec.template.spec.containers[%d].ports[%d]: containerPort must be between 1 and 65535, got %d",
					i, j, p.ContainerPort)
			}
		}
	}
	return nil
}

func labelsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
