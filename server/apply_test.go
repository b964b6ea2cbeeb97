package server

import (
	"strings"
	"testing"

	"github.com/manifestkube/declctl/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeNodePort(t *testing.T) {
	port, err := freeNodePort(map[int]bool{})
	require.NoError(t, err)
	assert.Equal(t, models.NodePortMin, port)

	used := map[int]bool{models.NodePortMin: true, models.NodePortMin + 1: true}
	port, err = freeNodePort(used)
	require.NoError(t, err)
	assert.Equal(t, models.NodePortMin+2, port)
}

func TestFreeNodePort_Exhausted(t *testing.T) {
	used := make(map[int]bool)
	for p := models.NodePortMin; p <= models.NodePortMax; p++ {
		used[p] = true
	}
	_, err := freeNodePort(used)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no free NodePort")
}

func TestMaterializePod(t *testing.T) {
	dep := models.Deployment{
		APIVersion: "apps/v1",
		Kind:       "Deployment",
		Metadata:   models.Metadata{Name: "nginx-deployment", Namespace: "eks-tutorial"},
		Spec: models.DeploymentSpec{
			Replicas: 3,
			Selector: models.LabelSelector{MatchLabels: map[string]string{"app": "nginx-app"}},
			Template: models.PodTemplate{
				Metadata: models.PodTemplateMetadata{Labels: map[string]string{"app": "nginx-app"}},
				Spec: models.PodTemplateSpec{
					Containers: []models.Container{{Name: "nginx", Image: "nginx:latest"}},
				},
			},
		},
	}

	pod := materializePod(&dep)
	assert.True(t, strings.HasPrefix(pod.Metadata.Name, "nginx-deployment-"), pod.Metadata.Name)
	assert.Equal(t, "eks-tutorial", pod.Metadata.Namespace)
	assert.NotEmpty(t, pod.Metadata.UID)
	assert.Equal(t, "nginx-deployment", pod.Spec.Deployment)
	assert.Equal(t, "Pending", pod.Status.Phase)
	assert.Equal(t, map[string]string{"app": "nginx-app"}, pod.Metadata.Labels)

	// Labels are copied, not shared with the template
	pod.Metadata.Labels["app"] = "mutated"
	assert.Equal(t, "nginx-app", dep.Spec.Template.Metadata.Labels["app"])

	// Each materialized record gets its own name
	other := materializePod(&dep)
	assert.NotEqual(t, pod.Metadata.Name, other.Metadata.Name)
}
