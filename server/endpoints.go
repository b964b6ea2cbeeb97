package server

import "github.com/manifestkube/declctl/models"

// Endpoint is one pod a service routes to, with the resolved port mapping.
type Endpoint struct {
	PodName    string `json:"podName"`
	Protocol   string `json:"protocol"`
	Port       int    `json:"port"`
	TargetPort int    `json:"targetPort"`
	NodePort   int    `json:"nodePort,omitempty"`
}

// ResolveEndpoints matches a service's selector against pod labels.
// A selector that matches nothing yields an empty slice, which is a
// legal state for a service.
func ResolveEndpoints(svc models.Service, pods []models.Pod) []Endpoint {
	endpoints := []Endpoint{}
	for _, pod := range pods {
		if pod.Metadata.Namespace != svc.Metadata.Namespace {
			continue
		}
		if !models.MatchLabels(pod.Metadata.Labels, svc.Spec.Selector) {
			continue
		}
		for _, port := range svc.Spec.Ports {
			protocol := port.Protocol
			if protocol == "" {
				protocol = "TCP"
			}
			endpoints = append(endpoints, Endpoint{
				PodName:    pod.Metadata.Name,
				Protocol:   protocol,
				Port:       port.Port,
				TargetPort: port.EffectiveTargetPort(),
				NodePort:   port.NodePort,
			})
		}
	}
	return endpoints
}
