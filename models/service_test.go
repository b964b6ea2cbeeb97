package models

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestService_Validate_Valid(t *testing.T) {
	yamlData := `
apiVersion: v1
kind: Service
metadata:
  name: nginx-service
  namespace: eks-tutorial
spec:
  selector:
    app: nginx-app
  type: NodePort
  ports:
    - protocol: TCP
      port: 80
      targetPort: 80
`
	var svc Service
	if err := yaml.Unmarshal([]byte(yamlData), &svc); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if err := svc.Validate(); err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if svc.Type() != ServiceTypeNodePort {
		t.Errorf("expected NodePort, got %s", svc.Type())
	}
}

func TestService_Validate_MissingSelector(t *testing.T) {
	svc := Service{
		APIVersion: "v1",
		Kind:       "Service",
		Metadata:   Metadata{Name: "web"},
		Spec: ServiceSpec{
			Ports: []ServicePort{{Port: 80}},
		},
	}
	if err := svc.Validate(); err == nil {
		t.Fatal("expected validate error for missing selector, got nil")
	}
}

func TestService_Validate_BadType(t *testing.T) {
	svc := Service{
		APIVersion: "v1",
		Metadata:   Metadata{Name: "web"},
		Spec: ServiceSpec{
			Selector: map[string]string{"app": "web"},
			Type:     "LoadBalancer",
			Ports:    []ServicePort{{Port: 80}},
		},
	}
	if err := svc.Validate(); err == nil {
		t.Fatal("expected validate error for unsupported type, got nil")
	}
}

func TestService_Validate_PortRanges(t *testing.T) {
	cases := []struct {
		name string
		port ServicePort
	}{
		{"zero port", ServicePort{Port: 0}},
		{"port too high", ServicePort{Port: 70000}},
		{"bad protocol", ServicePort{Port: 80, Protocol: "SCTP"}},
		{"nodePort below range", ServicePort{Port: 80, NodePort: 29999}},
		{"nodePort above range", ServicePort{Port: 80, NodePort: 32768}},
	}
	for _, tc := range cases {
		svc := Service{
			APIVersion: "v1",
			Metadata:   Metadata{Name: "web"},
			Spec: ServiceSpec{
				Selector: map[string]string{"app": "web"},
				Type:     ServiceTypeNodePort,
				Ports:    []ServicePort{tc.port},
			},
		}
		if err := svc.Validate(); err == nil {
			t.Errorf("%s: expected validate error, got nil", tc.name)
		}
	}
}

func TestService_Validate_NodePortOnClusterIP(t *testing.T) {
	svc := Service{
		APIVersion: "v1",
		Metadata:   Metadata{Name: "web"},
		Spec: ServiceSpec{
			Selector: map[string]string{"app": "web"},
			Ports:    []ServicePort{{Port: 80, NodePort: 30080}},
		},
	}
	if err := svc.Validate(); err == nil {
		t.Fatal("expected validate error for nodePort on ClusterIP service, got nil")
	}
}

func TestServicePort_EffectiveTargetPort(t *testing.T) {
	if got := (ServicePort{Port: 80}).EffectiveTargetPort(); got != 80 {
		t.Errorf("expected fallback to port 80, got %d", got)
	}
	if got := (ServicePort{Port: 80, TargetPort: 8080}).EffectiveTargetPort(); got != 8080 {
		t.Errorf("expected 8080, got %d", got)
	}
}

func TestMatchLabels(t *testing.T) {
	labels := map[string]string{"app": "nginx-app", "tier": "web"}

	if !MatchLabels(labels, map[string]string{"app": "nginx-app"}) {
		t.Error("subset selector should match")
	}
	if MatchLabels(labels, map[string]string{"app": "other"}) {
		t.Error("mismatched value should not match")
	}
	if MatchLabels(labels, map[string]string{"zone": "a"}) {
		t.Error("missing key should not match")
	}
	if MatchLabels(labels, nil) {
		t.Error("empty selector should match nothing")
	}
}
