package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/manifestkube/declctl/models"
	redisclient "github.com/manifestkube/declctl/redis"
)

// Keys are laid out as <kind>:<namespace>:<name>. Namespaces use a "-"
// placeholder since they are not themselves namespaced.
func key(kind, namespace, name string) string {
	if namespace == "" {
		namespace = "-"
	}
	return fmt.Sprintf("%s:%s:%s", strings.ToLower(kind), namespace, name)
}

func save(kind, namespace, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s '%s': %v", kind, name, err)
	}
	return redisclient.RedisClient.Set(redisclient.Ctx, key(kind, namespace, name), data, 0).Err()
}

func load(kind, namespace, name string, out interface{}) (bool, error) {
	data, err := redisclient.RedisClient.Get(redisclient.Ctx, key(kind, namespace, name)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s '%s': %v", kind, name, err)
	}
	return true, nil
}

// listKeys returns the sorted keys for a kind, optionally filtered by
// namespace ("" means all namespaces).
func listKeys(kind, namespace string) ([]string, error) {
	pattern := strings.ToLower(kind) + ":*"
	if namespace != "" {
		pattern = fmt.Sprintf("%s:%s:*", strings.ToLower(kind), namespace)
	}
	keys, err := redisclient.RedisClient.Keys(redisclient.Ctx, pattern).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func deleteKey(kind, namespace, name string) (bool, error) {
	n, err := redisclient.RedisClient.Del(redisclient.Ctx, key(kind, namespace, name)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func SaveNamespace(ns models.Namespace) error {
	return save("Namespace", "", ns.Metadata.Name, ns)
}

func GetNamespace(name string) (models.Namespace, bool, error) {
	var ns models.Namespace
	found, err := load("Namespace", "", name, &ns)
	return ns, found, err
}

func ListNamespaces() ([]models.Namespace, error) {
	keys, err := listKeys("Namespace", "")
	if err != nil {
		return nil, err
	}
	namespaces := []models.Namespace{}
	for _, k := range keys {
		data, err := redisclient.RedisClient.Get(redisclient.Ctx, k).Result()
		if err != nil {
			continue
		}
		var ns models.Namespace
		if err := json.Unmarshal([]byte(data), &ns); err == nil {
			namespaces = append(namespaces, ns)
		}
	}
	return namespaces, nil
}

// DeleteNamespace removes the namespace record and everything stored
// inside it.
func DeleteNamespace(name string) (bool, error) {
	found, err := deleteKey("Namespace", "", name)
	if err != nil {
		return false, err
	}
	for _, kind := range []string{"Service", "Deployment", "Pod"} {
		keys, err := listKeys(kind, name)
		if err != nil {
			return found, err
		}
		for _, k := range keys {
			redisclient.RedisClient.Del(redisclient.Ctx, k)
		}
	}
	return found, nil
}

func SaveService(svc models.Service) error {
	return save("Service", svc.Metadata.Namespace, svc.Metadata.Name, svc)
}

func GetService(namespace, name string) (models.Service, bool, error) {
	var svc models.Service
	found, err := load("Service", namespace, name, &svc)
	return svc, found, err
}

func ListServices(namespace string) ([]models.Service, error) {
	keys, err := listKeys("Service", namespace)
	if err != nil {
		return nil, err
	}
	services := []models.Service{}
	for _, k := range keys {
		data, err := redisclient.RedisClient.Get(redisclient.Ctx, k).Result()
		if err != nil {
			continue
		}
		var svc models.Service
		if err := json.Unmarshal([]byte(data), &svc); err == nil {
			services = append(services, svc)
		}
	}
	return services, nil
}

func DeleteService(namespace, name string) (bool, error) {
	return deleteKey("Service", namespace, name)
}

func SaveDeployment(dep models.Deployment) error {
	return save("Deployment", dep.Metadata.Namespace, dep.Metadata.Name, dep)
}

func GetDeployment(namespace, name string) (models.Deployment, bool, error) {
	var dep models.Deployment
	found, err := load("Deployment", namespace, name, &dep)
	return dep, found, err
}

func ListDeployments(namespace string) ([]models.Deployment, error) {
	keys, err := listKeys("Deployment", namespace)
	if err != nil {
		return nil, err
	}
	deployments := []models.Deployment{}
	for _, k := range keys {
		data, err := redisclient.RedisClient.Get(redisclient.Ctx, k).Result()
		if err != nil {
			continue
		}
		var dep models.Deployment
		if err := json.Unmarshal([]byte(data), &dep); err == nil {
			deployments = append(deployments, dep)
		}
	}
	return deployments, nil
}

func DeleteDeployment(namespace, name string) (bool, error) {
	return deleteKey("Deployment", namespace, name)
}

func SavePod(pod models.Pod) error {
	return save("Pod", pod.Metadata.Namespace, pod.Metadata.Name, pod)
}

func ListPods(namespace string) ([]models.Pod, error) {
	keys, err := listKeys("Pod", namespace)
	if err != nil {
		return nil, err
	}
	pods := []models.Pod{}
	for _, k := range keys {
		data, err := redisclient.RedisClient.Get(redisclient.Ctx, k).Result()
		if err != nil {
			continue
		}
		var pod models.Pod
		if err := json.Unmarshal([]byte(data), &pod); err == nil {
			pods = append(pods, pod)
		}
	}
	return pods, nil
}

func DeletePod(namespace, name string) (bool, error) {
	return deleteKey("Pod", namespace, name)
}

// DeletePodsOfDeployment drops the replica records a deployment owns.
// Used when a deployment is re-applied or deleted.
func DeletePodsOfDeployment(namespace, deployment string) (int, error) {
	pods, err := ListPods(namespace)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, pod := range pods {
		if pod.Spec.Deployment != deployment {
			continue
		}
		if ok, err := DeletePod(pod.Metadata.Namespace, pod.Metadata.Name); err == nil && ok {
			deleted++
		}
	}
	return deleted, nil
}
