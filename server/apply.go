package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/manifestkube/declctl/manifest"
	"github.com/manifestkube/declctl/models"
	"github.com/manifestkube/declctl/store"
)

// ApplyResult reports the outcome for one record of an applied manifest.
type ApplyResult struct {
	Kind      string `json:"kind"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
	Status    string `json:"status"` // Created
	Message   string `json:"message,omitempty"`
}

// ApplyResponse is the body of a successful manifest apply. Warnings are
// the non-fatal validation findings, so direct API callers see the same
// notices the CLI prints.
type ApplyResponse struct {
	Results  []ApplyResult    `json:"results"`
	Warnings []manifest.Issue `json:"warnings,omitempty"`
}

// nodePortMu serializes NodePort assignment: claiming a port is a
// read-check-write over the shared store.
var nodePortMu sync.Mutex

func (s *APIServer) handleApplyManifest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	set, err := manifest.ParseBytes(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	issues := set.Validate()
	if manifest.HasErrors(issues) {
		respondJSON(w, http.StatusUnprocessableEntity, issues)
		return
	}

	// Apply in document order; stop at the first failure so the response
	// reflects exactly what was stored.
	results := []ApplyResult{}
	for _, record := range set.Records() {
		result, err := applyRecord(record)
		if err != nil {
			respondError(w, http.StatusInternalServerError,
				fmt.Sprintf("failed to apply %s '%s': %v", record.GetKind(), record.GetName(), err))
			return
		}
		results = append(results, result)
	}
	respondJSON(w, http.StatusCreated, ApplyResponse{Results: results, Warnings: issues})
}

func applyRecord(record models.Resource) (ApplyResult, error) {
	var err error
	message := ""

	switch rec := record.(type) {
	case *models.Namespace:
		err = applyNamespace(rec)
	case *models.Service:
		assigned, applyErr := applyServiceWithPorts(rec)
		err = applyErr
		if len(assigned) > 0 {
			message = fmt.Sprintf("assigned NodePorts %v", assigned)
		}
	case *models.Deployment:
		err = applyDeployment(rec)
		if err == nil {
			message = fmt.Sprintf("%d replica records", rec.Spec.Replicas)
		}
	default:
		err = fmt.Errorf("unsupported record kind: %s", record.GetKind())
	}

	if err != nil {
		return ApplyResult{}, err
	}
	return ApplyResult{
		Kind:      record.GetKind(),
		Namespace: record.GetNamespace(),
		Name:      record.GetName(),
		Status:    "Created",
		Message:   message,
	}, nil
}

func applyNamespace(ns *models.Namespace) error {
	if ns.Metadata.UID == "" {
		ns.Metadata.UID = uuid.New().String()
	}
	if err := store.SaveNamespace(*ns); err != nil {
		return err
	}
	log.Printf("✅ Namespace '%s' stored", ns.Metadata.Name)
	return nil
}

func applyService(svc *models.Service) error {
	_, err := applyServiceWithPorts(svc)
	return err
}

// applyServiceWithPorts stores the service, auto-assigning free NodePorts
// where a NodePort service leaves them 0. Returns the assigned ports.
func applyServiceWithPorts(svc *models.Service) ([]int, error) {
	if svc.Metadata.UID == "" {
		svc.Metadata.UID = uuid.New().String()
	}

	var assigned []int
	if svc.Type() == models.ServiceTypeNodePort {
		nodePortMu.Lock()
		defer nodePortMu.Unlock()

		used, err := usedNodePorts()
		if err != nil {
			return nil, err
		}
		for i, port := range svc.Spec.Ports {
			if port.NodePort != 0 {
				if used[port.NodePort] {
					return nil, fmt.Errorf("nodePort %d is already in use", port.NodePort)
				}
				used[port.NodePort] = true
				continue
			}
			nodePort, err := freeNodePort(used)
			if err != nil {
				return nil, err
			}
			svc.Spec.Ports[i].NodePort = nodePort
			used[nodePort] = true
			assigned = append(assigned, nodePort)
		}
	}

	if err := store.SaveService(*svc); err != nil {
		return nil, err
	}
	log.Printf("✅ Service '%s/%s' stored", svc.Metadata.Namespace, svc.Metadata.Name)
	return assigned, nil
}

// usedNodePorts collects every NodePort currently claimed by a stored
// service, across all namespaces.
func usedNodePorts() (map[int]bool, error) {
	services, err := store.ListServices("")
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool)
	for _, svc := range services {
		for _, port := range svc.Spec.Ports {
			if port.NodePort > 0 {
				used[port.NodePort] = true
			}
		}
	}
	return used, nil
}

// freeNodePort picks the lowest unclaimed port in the NodePort range.
func freeNodePort(used map[int]bool) (int, error) {
	for port := models.NodePortMin; port <= models.NodePortMax; port++ {
		if !used[port] {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free NodePort in range %d-%d", models.NodePortMin, models.NodePortMax)
}

// applyDeployment stores the deployment and materializes its replica
// records. Re-applying replaces the previous generation's records.
func applyDeployment(dep *models.Deployment) error {
	if dep.Metadata.UID == "" {
		dep.Metadata.UID = uuid.New().String()
	}
	if err := store.SaveDeployment(*dep); err != nil {
		return err
	}

	if _, err := store.DeletePodsOfDeployment(dep.Metadata.Namespace, dep.Metadata.Name); err != nil {
		return fmt.Errorf("failed to drop previous replica records: %v", err)
	}

	for i := 0; i < dep.Spec.Replicas; i++ {
		pod := materializePod(dep)
		if err := store.SavePod(pod); err != nil {
			return fmt.Errorf("failed to store replica record '%s': %v", pod.Metadata.Name, err)
		}
	}
	log.Printf("✅ Deployment '%s/%s' stored with %d replica records",
		dep.Metadata.Namespace, dep.Metadata.Name, dep.Spec.Replicas)
	return nil
}

func materializePod(dep *models.Deployment) models.Pod {
	uid := uuid.New().String()
	labels := make(map[string]string, len(dep.Spec.Template.Metadata.Labels))
	for k, v := range dep.Spec.Template.Metadata.Labels {
		labels[k] = v
	}
	return models.Pod{
		Metadata: models.Metadata{
			Name:      fmt.Sprintf("%s-%s", dep.Metadata.Name, uid[:8]),
			Namespace: dep.Metadata.Namespace,
			UID:       uid,
			Labels:    labels,
		},
		Spec: models.PodSpec{
			Containers: dep.Spec.Template.Spec.Containers,
			Deployment: dep.Metadata.Name,
		},
		Status: models.PodStatus{
			Phase:     "Pending",
			StartTime: time.Now().Format(time.RFC3339),
		},
	}
}
