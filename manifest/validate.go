package manifest

import (
	"fmt"

	"github.com/manifestkube/declctl/models"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding, tied to the record it concerns.
type Issue struct {
	Severity Severity
	Kind     string
	Name     string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s/%s: %s", i.Severity, i.Kind, i.Name, i.Message)
}

// HasErrors reports whether any issue is an error (as opposed to a warning).
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks every record individually and then the relationships
// between records. Per-record schema violations and duplicates are
// errors; a dangling namespace reference or a selector that resolves to
// zero endpoints is legal desired state and only warned about.
func (s *Set) Validate() []Issue {
	var issues []Issue

	issues = append(issues, s.validateRecords()...)
	issues = append(issues, s.validateDuplicates()...)
	issues = append(issues, s.validateNamespaceRefs()...)
	issues = append(issues, s.validateSelectors()...)

	return issues
}

func (s *Set) validateRecords() []Issue {
	var issues []Issue
	for _, record := range s.records {
		if err := record.Validate(); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Kind:     record.GetKind(),
				Name:     record.GetName(),
				Message:  err.Error(),
			})
		}
	}
	return issues
}

func (s *Set) validateDuplicates() []Issue {
	var issues []Issue
	seen := make(map[string]bool)
	for _, record := range s.records {
		key := record.GetKind() + ":" + record.GetNamespace() + ":" + record.GetName()
		if seen[key] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Kind:     record.GetKind(),
				Name:     record.GetName(),
				Message:  fmt.Sprintf("duplicate record in namespace %q", record.GetNamespace()),
			})
		}
		seen[key] = true
	}
	return issues
}

// validateNamespaceRefs warns when a namespaced record points at a
// namespace the set does not declare. The namespace may already exist in
// the cluster, so this is not an error.
func (s *Set) validateNamespaceRefs() []Issue {
	declared := make(map[string]bool)
	for _, ns := range s.Namespaces() {
		declared[ns.Metadata.Name] = true
	}

	var issues []Issue
	for _, record := range s.records {
		ns := record.GetNamespace()
		if ns == "" || declared[ns] {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Kind:     record.GetKind(),
			Name:     record.GetName(),
			Message:  fmt.Sprintf("namespace %q is not declared in this manifest", ns),
		})
	}
	return issues
}

// validateSelectors warns when a service selector matches no deployment
// pod template in the same namespace: the service would resolve to zero
// endpoints.
func (s *Set) validateSelectors() []Issue {
	var issues []Issue
	for _, svc := range s.Services() {
		if len(svc.Spec.Selector) == 0 {
			continue // already an error from the record itself
		}
		matched := false
		for _, dep := range s.Deployments() {
			if dep.GetNamespace() != svc.GetNamespace() {
				continue
			}
			if models.MatchLabels(dep.Spec.Template.Metadata.Labels, svc.Spec.Selector) {
				matched = true
				break
			}
		}
		if !matched {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Kind:     svc.GetKind(),
				Name:     svc.GetName(),
				Message:  fmt.Sprintf("selector %v matches no pod template in this manifest; the service resolves to zero endpoints", svc.Spec.Selector),
			})
		}
	}
	return issues
}
