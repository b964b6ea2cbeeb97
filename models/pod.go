package models

// Pod is a desired replica record materialized from an applied Deployment.
// Nothing in this repository runs it; it exists so services can resolve
// their selectors against something.
type Pod struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Spec     PodSpec   `json:"spec" yaml:"spec"`
	Status   PodStatus `json:"status" yaml:"status"`
}

type PodSpec struct {
	Containers []Container `json:"containers" yaml:"containers"`
	Deployment string      `json:"deployment,omitempty" yaml:"deployment,omitempty"` // owning deployment
}

type PodStatus struct {
	Phase     string `json:"phase"` // Pending until an orchestrator picks it up
	StartTime string `json:"startTime,omitempty"`
}
