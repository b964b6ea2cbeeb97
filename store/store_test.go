package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/manifestkube/declctl/models"
	redisclient "github.com/manifestkube/declctl/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redisclient.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "service:eks-tutorial:nginx-service", key("Service", "eks-tutorial", "nginx-service"))
	assert.Equal(t, "deployment:eks-tutorial:nginx-deployment", key("Deployment", "eks-tutorial", "nginx-deployment"))
	// Namespaces are not themselves namespaced; they get a placeholder
	assert.Equal(t, "namespace:-:eks-tutorial", key("Namespace", "", "eks-tutorial"))
}

func TestSaveWritesUnderLayoutKey(t *testing.T) {
	mr := setupStore(t)

	svc := models.Service{
		APIVersion: "v1",
		Kind:       "Service",
		Metadata:   models.Metadata{Name: "nginx-service", Namespace: "eks-tutorial"},
		Spec: models.ServiceSpec{
			Selector: map[string]string{"app": "nginx-app"},
			Ports:    []models.ServicePort{{Port: 80}},
		},
	}
	require.NoError(t, SaveService(svc))

	require.True(t, mr.Exists("service:eks-tutorial:nginx-service"))

	got, found, err := GetService("eks-tutorial", "nginx-service")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, svc, got)
}

func TestGetMissingRecord(t *testing.T) {
	setupStore(t)

	_, found, err := GetService("eks-tutorial", "ghost")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = GetNamespace("ghost")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListFiltersByNamespace(t *testing.T) {
	setupStore(t)

	for _, ns := range []string{"eks-tutorial", "production"} {
		require.NoError(t, SaveDeployment(models.Deployment{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
			Metadata:   models.Metadata{Name: "web", Namespace: ns},
		}))
	}

	scoped, err := ListDeployments("eks-tutorial")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "eks-tutorial", scoped[0].Metadata.Namespace)

	all, err := ListDeployments("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteNamespaceCascades(t *testing.T) {
	mr := setupStore(t)

	require.NoError(t, SaveNamespace(models.Namespace{
		APIVersion: "v1", Kind: "Namespace",
		Metadata: models.Metadata{Name: "eks-tutorial"},
	}))
	require.NoError(t, SaveService(models.Service{
		APIVersion: "v1", Kind: "Service",
		Metadata: models.Metadata{Name: "nginx-service", Namespace: "eks-tutorial"},
	}))
	require.NoError(t, SavePod(models.Pod{
		Metadata: models.Metadata{Name: "nginx-deployment-aaaa", Namespace: "eks-tutorial"},
	}))
	// A record in another namespace must survive the cascade
	require.NoError(t, SaveService(models.Service{
		APIVersion: "v1", Kind: "Service",
		Metadata: models.Metadata{Name: "other", Namespace: "production"},
	}))

	found, err := DeleteNamespace("eks-tutorial")
	require.NoError(t, err)
	require.True(t, found)

	assert.False(t, mr.Exists("namespace:-:eks-tutorial"))
	assert.False(t, mr.Exists("service:eks-tutorial:nginx-service"))
	assert.False(t, mr.Exists("pod:eks-tutorial:nginx-deployment-aaaa"))
	assert.True(t, mr.Exists("service:production:other"))
}

func TestDeletePodsOfDeployment(t *testing.T) {
	setupStore(t)

	for _, name := range []string{"web-aaaa", "web-bbbb"} {
		require.NoError(t, SavePod(models.Pod{
			Metadata: models.Metadata{Name: name, Namespace: "demo"},
			Spec:     models.PodSpec{Deployment: "web"},
		}))
	}
	require.NoError(t, SavePod(models.Pod{
		Metadata: models.Metadata{Name: "api-cccc", Namespace: "demo"},
		Spec:     models.PodSpec{Deployment: "api"},
	}))

	deleted, err := DeletePodsOfDeployment("demo", "web")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := ListPods("demo")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "api-cccc", remaining[0].Metadata.Name)
}
