package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/manifestkube/declctl/models"
	"github.com/manifestkube/declctl/server"
)

type ClientConfig struct {
	Host string
	Port string
}

// Client talks to the declaration API server.
type Client struct {
	baseURL string
	config  ClientConfig
}

func NewClient(config ClientConfig) *Client {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == "" {
		config.Port = "8080"
	}
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%s", config.Host, config.Port),
		config:  config,
	}
}

// ApplyManifest posts raw manifest YAML and returns the per-record
// results along with any validation warnings.
func (c *Client) ApplyManifest(data []byte) (*server.ApplyResponse, error) {
	resp, err := http.Post(c.baseURL+"/api/v1/manifests", "application/yaml", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("failed to apply manifest: %s - %s", resp.Status, readError(resp.Body))
	}

	var applied server.ApplyResponse
	if err := json.NewDecoder(resp.Body).Decode(&applied); err != nil {
		return nil, err
	}
	return &applied, nil
}

// GetNamespace fetches one namespace record.
func (c *Client) GetNamespace(name string) (models.Namespace, error) {
	var ns models.Namespace
	err := c.getJSON(fmt.Sprintf("%s/api/v1/namespaces/%s", c.baseURL, name), &ns)
	return ns, err
}

func (c *Client) ListNamespaces() ([]models.Namespace, error) {
	var namespaces []models.Namespace
	err := c.getJSON(c.baseURL+"/api/v1/namespaces", &namespaces)
	return namespaces, err
}

func (c *Client) ListServices(namespace string) ([]models.Service, error) {
	url := c.baseURL + "/api/v1/services"
	if namespace != "" {
		url = fmt.Sprintf("%s/api/v1/namespaces/%s/services", c.baseURL, namespace)
	}
	var services []models.Service
	err := c.getJSON(url, &services)
	return services, err
}

func (c *Client) ListDeployments(namespace string) ([]models.Deployment, error) {
	url := c.baseURL + "/api/v1/deployments"
	if namespace != "" {
		url = fmt.Sprintf("%s/api/v1/namespaces/%s/deployments", c.baseURL, namespace)
	}
	var deployments []models.Deployment
	err := c.getJSON(url, &deployments)
	return deployments, err
}

func (c *Client) ListPods(namespace string) ([]models.Pod, error) {
	url := c.baseURL + "/api/v1/pods"
	if namespace != "" {
		url = fmt.Sprintf("%s/api/v1/namespaces/%s/pods", c.baseURL, namespace)
	}
	var pods []models.Pod
	err := c.getJSON(url, &pods)
	return pods, err
}

// GetEndpoints resolves a service's selector against the stored replica
// records. An empty result means the service selects zero endpoints.
func (c *Client) GetEndpoints(namespace, name string) ([]server.Endpoint, error) {
	url := fmt.Sprintf("%s/api/v1/namespaces/%s/services/%s/endpoints", c.baseURL, namespace, name)
	var endpoints []server.Endpoint
	err := c.getJSON(url, &endpoints)
	return endpoints, err
}

func (c *Client) DeleteNamespace(name string) error {
	return c.delete(fmt.Sprintf("%s/api/v1/namespaces/%s", c.baseURL, name))
}

func (c *Client) DeleteService(namespace, name string) error {
	return c.delete(fmt.Sprintf("%s/api/v1/namespaces/%s/services/%s", c.baseURL, namespace, name))
}

func (c *Client) DeleteDeployment(namespace, name string) error {
	return c.delete(fmt.Sprintf("%s/api/v1/namespaces/%s/deployments/%s", c.baseURL, namespace, name))
}

func (c *Client) getJSON(url string, out interface{}) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed: %s - %s", resp.Status, readError(resp.Body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) delete(url string) error {
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete failed: %s - %s", resp.Status, readError(resp.Body))
	}
	return nil
}

// readError pulls the error message out of an error response body.
func readError(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}
