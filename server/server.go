package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/manifestkube/declctl/models"
	"github.com/manifestkube/declctl/store"
)

type APIServer struct {
	router *mux.Router
	port   string
}

func NewAPIServer(port string) *APIServer {
	if port == "" {
		port = "8080"
	}
	return &APIServer{
		router: mux.NewRouter(),
		port:   port,
	}
}

func (s *APIServer) Start() {
	s.setupRoutes()
	log.Printf("✅ API Server starting on port %s", s.port)
	if err := http.ListenAndServe(":"+s.port, s.router); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func (s *APIServer) setupRoutes() {
	// Manifest endpoint: apply a whole declaration set in document order
	s.router.HandleFunc("/api/v1/manifests", s.handleApplyManifest).Methods("POST")

	// Namespace endpoints
	s.router.HandleFunc("/api/v1/namespaces", s.handleListNamespaces).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces", s.handleCreateNamespace).Methods("POST")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}", s.handleGetNamespace).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}", s.handleDeleteNamespace).Methods("DELETE")

	// Service endpoints
	s.router.HandleFunc("/api/v1/services", s.handleListAllServices).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/services", s.handleListServices).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/services", s.handleCreateService).Methods("POST")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/services/{name}", s.handleGetService).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/services/{name}", s.handleDeleteService).Methods("DELETE")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/services/{name}/endpoints", s.handleGetEndpoints).Methods("GET")

	// Deployment endpoints
	s.router.HandleFunc("/api/v1/deployments", s.handleListAllDeployments).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/deployments", s.handleListDeployments).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/deployments", s.handleCreateDeployment).Methods("POST")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/deployments/{name}", s.handleGetDeployment).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/deployments/{name}", s.handleDeleteDeployment).Methods("DELETE")

	// Pod endpoints (read-only; pods are materialized from deployments)
	s.router.HandleFunc("/api/v1/pods", s.handleListAllPods).Methods("GET")
	s.router.HandleFunc("/api/v1/namespaces/{namespace}/pods", s.handleListPods).Methods("GET")
}

func (s *APIServer) handleListNamespaces(w http.ResponseWriter, r *http.Request) {
	namespaces, err := store.ListNamespaces()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, namespaces)
}

func (s *APIServer) handleCreateNamespace(w http.ResponseWriter, r *http.Request) {
	var ns models.Namespace
	if err := json.NewDecoder(r.Body).Decode(&ns); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := ns.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := applyNamespace(&ns); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, ns)
}

func (s *APIServer) handleGetNamespace(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["namespace"]
	ns, found, err := store.GetNamespace(name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Namespace not found")
		return
	}
	respondJSON(w, http.StatusOK, ns)
}

func (s *APIServer) handleDeleteNamespace(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["namespace"]
	found, err := store.DeleteNamespace(name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Namespace not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Namespace deleted successfully"})
}

func (s *APIServer) handleListAllServices(w http.ResponseWriter, r *http.Request) {
	s.listServices(w, "")
}

func (s *APIServer) handleListServices(w http.ResponseWriter, r *http.Request) {
	s.listServices(w, mux.Vars(r)["namespace"])
}

func (s *APIServer) listServices(w http.ResponseWriter, namespace string) {
	services, err := store.ListServices(namespace)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, services)
}

func (s *APIServer) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var svc models.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if svc.Metadata.Namespace == "" {
		svc.Metadata.Namespace = mux.Vars(r)["namespace"]
	}
	if err := svc.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := applyService(&svc); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, svc)
}

func (s *APIServer) handleGetService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	svc, found, err := store.GetService(vars["namespace"], vars["name"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Service not found")
		return
	}
	respondJSON(w, http.StatusOK, svc)
}

func (s *APIServer) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	found, err := store.DeleteService(vars["namespace"], vars["name"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Service not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Service deleted successfully"})
}

func (s *APIServer) handleGetEndpoints(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	svc, found, err := store.GetService(vars["namespace"], vars["name"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Service not found")
		return
	}
	pods, err := store.ListPods(vars["namespace"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Zero endpoints is a valid, observable state
	respondJSON(w, http.StatusOK, ResolveEndpoints(svc, pods))
}

func (s *APIServer) handleListAllDeployments(w http.ResponseWriter, r *http.Request) {
	s.listDeployments(w, "")
}

func (s *APIServer) handleListDeployments(w http.ResponseWriter, r *http.Request) {
	s.listDeployments(w, mux.Vars(r)["namespace"])
}

func (s *APIServer) listDeployments(w http.ResponseWriter, namespace string) {
	deployments, err := store.ListDeployments(namespace)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, deployments)
}

func (s *APIServer) handleCreateDeployment(w http.ResponseWriter, r *http.Request) {
	var dep models.Deployment
	if err := json.NewDecoder(r.Body).Decode(&dep); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if dep.Metadata.Namespace == "" {
		dep.Metadata.Namespace = mux.Vars(r)["namespace"]
	}
	if err := dep.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := applyDeployment(&dep); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, dep)
}

func (s *APIServer) handleGetDeployment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dep, found, err := store.GetDeployment(vars["namespace"], vars["name"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Deployment not found")
		return
	}
	respondJSON(w, http.StatusOK, dep)
}

func (s *APIServer) handleDeleteDeployment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	found, err := store.DeleteDeployment(vars["namespace"], vars["name"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Deployment not found")
		return
	}
	if _, err := store.DeletePodsOfDeployment(vars["namespace"], vars["name"]); err != nil {
		log.Printf("⚠️ Failed to clean up pods of deployment '%s': %v", vars["name"], err)
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Deployment deleted successfully"})
}

func (s *APIServer) handleListAllPods(w http.ResponseWriter, r *http.Request) {
	s.listPods(w, "")
}

func (s *APIServer) handleListPods(w http.ResponseWriter, r *http.Request) {
	s.listPods(w, mux.Vars(r)["namespace"])
}

func (s *APIServer) listPods(w http.ResponseWriter, namespace string) {
	pods, err := store.ListPods(namespace)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, pods)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
