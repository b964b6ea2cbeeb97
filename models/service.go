package models

import "fmt"

// Service is a stable network endpoint routing traffic to the pods
// selected by its label selector.
type Service struct {
	APIVersion string      `json:"apiVersion" yaml:"apiVersion"`
	Kind       string      `json:"kind" yaml:"kind"`
	Metadata   Metadata    `json:"metadata" yaml:"metadata"`
	Spec       ServiceSpec `json:"spec" yaml:"spec"`
}

type ServiceSpec struct {
	Selector map[string]string `json:"selector" yaml:"selector"` // Match pods by labels
	Type     string            `json:"type,omitempty" yaml:"type,omitempty"`
	Ports    []ServicePort     `json:"ports" yaml:"ports"`
}

type ServicePort struct {
	Protocol   string `json:"protocol,omitempty" yaml:"protocol,omitempty"` // TCP or UDP, defaults to TCP
	Port       int    `json:"port" yaml:"port"`                             // Service port
	TargetPort int    `json:"targetPort,omitempty" yaml:"targetPort,omitempty"`
	NodePort   int    `json:"nodePort,omitempty" yaml:"nodePort,omitempty"` // Only for NodePort services
}

const (
	ServiceTypeClusterIP = "ClusterIP"
	ServiceTypeNodePort  = "NodePort"

	// NodePort allocation range.
	NodePortMin = 30000
	NodePortMax = 32767
)

func (s *Service) GetKind() string      { return "Service" }
func (s *Service) GetName() string      { return s.Metadata.Name }
func (s *Service) GetNamespace() string { return s.Metadata.Namespace }

// Type defaults to ClusterIP when unset.
func (s *Service) Type() string {
	if s.Spec.Type == "" {
		return ServiceTypeClusterIP
	}
	return s.Spec.Type
}

func (s *Service) Validate() error {
	if s.APIVersion == "" {
		return fmt.Errorf("apiVersion is required")
	}
	if s.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	if len(s.Spec.Selector) == 0 {
		return fmt.Errorf("spec.selector is required")
	}
	switch s.Type() {
	case ServiceTypeClusterIP, ServiceTypeNodePort:
	default:
		return fmt.Errorf("spec.type must be %s or %s, got %q", ServiceTypeClusterIP, ServiceTypeNodePort, s.Spec.Type)
	}
	if len(s.Spec.Ports) == 0 {
		return fmt.Errorf("spec.ports must contain at least one port")
	}
	for i, port := range s.Spec.Ports {
		if err := port.validate(); err != nil {
			return fmt.Errorf("spec.ports[%d]: %v", i, err)
		}
		if port.NodePort != 0 && s.Type() != ServiceTypeNodePort {
			return fmt.Errorf("spec.ports[%d]: nodePort is only valid for NodePort services", i)
		}
	}
	return nil
}

// EffectiveTargetPort falls back to the service port when no targetPort is given.
func (p ServicePort) EffectiveTargetPort() int {
	if p.TargetPort == 0 {
		return p.Port
	}
	return p.TargetPort
}

func (p ServicePort) validate() error {
	switch p.Protocol {
	case "", "TCP", "UDP":
	default:
		return fmt.Errorf("protocol must be TCP or UDP, got %q", p.Protocol)
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", p.Port)
	}
	if p.TargetPort < 0 || p.TargetPort > 65535 {
		return fmt.Errorf("targetPort must be between 1 and 65535, got %d", p.TargetPort)
	}
	if p.NodePort != 0 && (p.NodePort < NodePortMin || p.NodePort > NodePortMax) {
		return fmt.Errorf("nodePort must be between %d and %d, got %d", NodePortMin, NodePortMax, p.NodePort)
	}
	return nil
}
