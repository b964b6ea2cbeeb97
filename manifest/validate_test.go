package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validNamespaceDoc = `apiVersion: v1
kind: Namespace
metadata:
  name: demo
`

func TestValidateDuplicateRecords(t *testing.T) {
	data := validNamespaceDoc + "---\n" + validNamespaceDoc
	set, err := ParseBytes([]byte(data))
	require.NoError(t, err)

	issues := set.Validate()
	require.True(t, HasErrors(issues))

	found := false
	for _, issue := range issues {
		if issue.Severity == SeverityError && issue.Kind == "Namespace" && issue.Name == "demo" {
			found = true
		}
	}
	require.True(t, found, "expected a duplicate error for Namespace/demo, got %v", issues)
}

func TestValidateUndeclaredNamespaceIsWarning(t *testing.T) {
	data := `apiVersion: v1
kind: Service
metadata:
  name: web
  namespace: elsewhere
spec:
  selector:
    app: web
  ports:
    - port: 80
`
	set, err := ParseBytes([]byte(data))
	require.NoError(t, err)

	issues := set.Validate()
	require.False(t, HasErrors(issues))

	var messages []string
	for _, issue := range issues {
		require.Equal(t, SeverityWarning, issue.Severity)
		messages = append(messages, issue.Message)
	}
	require.Contains(t, messages[0], `namespace "elsewhere" is not declared`)
}

func TestValidateZeroEndpointSelectorIsWarning(t *testing.T) {
	data := `apiVersion: v1
kind: Namespace
metadata:
  name: demo
---
apiVersion: v1
kind: Service
metadata:
  name: web
  namespace: demo
spec:
  selector:
    app: web
  ports:
    - port: 80
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: api
  namespace: demo
spec:
  replicas: 2
  selector:
    matchLabels:
      app: api
  template:
    metadata:
      labels:
        app: api
    spec:
      containers:
        - name: api
          image: repo/api:latest
`
	set, err := ParseBytes([]byte(data))
	require.NoError(t, err)

	issues := set.Validate()
	require.False(t, HasErrors(issues), "zero endpoints is legal desired state: %v", issues)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
	require.Equal(t, "web", issues[0].Name)
	require.Contains(t, issues[0].Message, "zero endpoints")
}

func TestValidateSelectorTemplateMismatchIsError(t *testing.T) {
	data := `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  namespace: demo
spec:
  replicas: 1
  selector:
    matchLabels:
      app: web
  template:
    metadata:
      labels:
        app: something-else
    spec:
      containers:
        - name: web
          image: nginx:latest
`
	set, err := ParseBytes([]byte(data))
	require.NoError(t, err)

	issues := set.Validate()
	require.True(t, HasErrors(issues))

	found := false
	for _, issue := range issues {
		if issue.Severity == SeverityError && issue.Kind == "Deployment" {
			found = true
		}
	}
	require.True(t, found, "expected selector/template mismatch error, got %v", issues)
}

func TestValidateSelectorMatchAcrossExtraLabels(t *testing.T) {
	// A service selector that is a subset of the template labels matches
	data := `apiVersion: v1
kind: Namespace
metadata:
  name: demo
---
apiVersion: v1
kind: Service
metadata:
  name: web
  namespace: demo
spec:
  selector:
    app: web
  ports:
    - port: 8080
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  namespace: demo
spec:
  replicas: 1
  selector:
    matchLabels:
      app: web
      tier: frontend
  template:
    metadata:
      labels:
        app: web
        tier: frontend
    spec:
      containers:
        - name: web
          image: nginx:latest
`
	set, err := ParseBytes([]byte(data))
	require.NoError(t, err)
	require.Empty(t, set.Validate())
}

func TestHasErrors(t *testing.T) {
	require.False(t, HasErrors(nil))
	require.False(t, HasErrors([]Issue{{Severity: SeverityWarning}}))
	require.True(t, HasErrors([]Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}
