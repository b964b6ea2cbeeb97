package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifestkube/declctl/models"
	"gopkg.in/yaml.v3"
)

// Set is an ordered sequence of resource records parsed from a single
// multi-document YAML manifest. Document order is preserved; the records
// are applied in that order.
type Set struct {
	records []models.Resource
}

// Parse decodes a multi-document YAML manifest. Each document must carry
// a known kind; empty documents are skipped.
func Parse(r io.Reader) (*Set, error) {
	dec := yaml.NewDecoder(r)
	set := &Set{}

	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: invalid YAML: %v", i, err)
		}
		if node.Kind == 0 || isEmptyDocument(&node) {
			continue
		}

		record, err := decodeRecord(&node)
		if err != nil {
			return nil, fmt.Errorf("document %d: %v", i, err)
		}
		set.records = append(set.records, record)
	}

	return set, nil
}

// ParseBytes is a convenience wrapper around Parse.
func ParseBytes(data []byte) (*Set, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile reads and parses a manifest file.
func ParseFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %v", err)
	}
	defer f.Close()
	return Parse(f)
}

// decodeRecord peeks at the document's kind and decodes it into the
// matching typed record.
func decodeRecord(node *yaml.Node) (models.Resource, error) {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, fmt.Errorf("invalid record: %v", err)
	}

	switch head.Kind {
	case "":
		return nil, fmt.Errorf("record is missing a kind")
	case "Namespace":
		var ns models.Namespace
		if err := node.Decode(&ns); err != nil {
			return nil, fmt.Errorf("invalid Namespace: %v", err)
		}
		return &ns, nil
	case "Service":
		var svc models.Service
		if err := node.Decode(&svc); err != nil {
			return nil, fmt.Errorf("invalid Service: %v", err)
		}
		return &svc, nil
	case "Deployment":
		var dep models.Deployment
		if err := node.Decode(&dep); err != nil {
			return nil, fmt.Errorf("invalid Deployment: %v", err)
		}
		return &dep, nil
	default:
		return nil, fmt.Errorf("unsupported record kind: %s", head.Kind)
	}
}

func isEmptyDocument(node *yaml.Node) bool {
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return true
	}
	root := node.Content[0]
	return root.Kind == yaml.ScalarNode && root.Tag == "!!null"
}

// DefaultNamespace fills in the given namespace on every namespaced
// record that does not carry one. Namespace records are left alone.
func (s *Set) DefaultNamespace(namespace string) {
	if namespace == "" {
		return
	}
	for _, record := range s.records {
		switch rec := record.(type) {
		case *models.Service:
			if rec.Metadata.Namespace == "" {
				rec.Metadata.Namespace = namespace
			}
		case *models.Deployment:
			if rec.Metadata.Namespace == "" {
				rec.Metadata.Namespace = namespace
			}
		}
	}
}

// Records returns the records in document order.
func (s *Set) Records() []models.Resource {
	return s.records
}

// Len returns the record count.
func (s *Set) Len() int { return len(s.records) }

// Namespaces returns the Namespace records in document order.
func (s *Set) Namespaces() []*models.Namespace {
	var out []*models.Namespace
	for _, r := range s.records {
		if ns, ok := r.(*models.Namespace); ok {
			out = append(out, ns)
		}
	}
	return out
}

// Services returns the Service records in document order.
func (s *Set) Services() []*models.Service {
	var out []*models.Service
	for _, r := range s.records {
		if svc, ok := r.(*models.Service); ok {
			out = append(out, svc)
		}
	}
	return out
}

// Deployments returns the Deployment records in document order.
func (s *Set) Deployments() []*models.Deployment {
	var out []*models.Deployment
	for _, r := range s.records {
		if dep, ok := r.(*models.Deployment); ok {
			out = append(out, dep)
		}
	}
	return out
}

// Marshal re-serializes the set as a multi-document YAML manifest with
// `---` separators. Parsing the output yields an equal set.
func (s *Set) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, record := range s.records {
		if err := enc.Encode(record); err != nil {
			return nil, fmt.Errorf("failed to serialize %s/%s: %v", record.GetKind(), record.GetName(), err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
