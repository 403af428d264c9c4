package api

import (
	"net/http"

	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/swarm"
)

// EndpointStatus is one entry of the endpoint listing
type EndpointStatus struct {
	Name      string            `json:"name"`
	Host      string            `json:"host"`
	Labels    map[string]string `json:"labels,omitempty"`
	Connected bool              `json:"connected"`
	Active    bool              `json:"active"`
	Role      swarm.LocalRole   `json:"role"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListEndpoints(w http.ResponseWriter, _ *http.Request) {
	clients := s.endpoints.GetAllClients()

	statuses := make([]EndpointStatus, 0, len(clients))
	for _, c := range clients {
		identity := c.Monitor.Identity()
		statuses = append(statuses, EndpointStatus{
			Name:      c.Name,
			Host:      c.Host,
			Labels:    c.Labels,
			Connected: c.IsHealthy(),
			Active:    identity.Active,
			Role:      identity.LocalRole,
		})
	}

	WriteJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, clientFrom(r.Context()).Monitor.SwarmInfo(r.Context()))
}

func (s *Server) handleLocalNode(w http.ResponseWriter, r *http.Request) {
	local, ok := clientFrom(r.Context()).Monitor.LocalNode(r.Context())
	if !ok {
		WriteError(w, http.StatusServiceUnavailable, "local node info unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, local)
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	client := clientFrom(r.Context())

	nodes, err := client.Monitor.NodesE(r.Context())
	if err != nil {
		s.queryFailed(w, client.Name, "nodes", err)
		return
	}
	WriteJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	client := clientFrom(r.Context())

	services, err := client.Monitor.ServicesE(r.Context())
	switch {
	case monitor.IsPartial(err):
		s.logger.Warn("task queries failed, affected services report no running tasks",
			"endpoint", client.Name, "error", err)
	case err != nil:
		s.queryFailed(w, client.Name, "services", err)
		return
	}
	WriteJSON(w, http.StatusOK, services)
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	client := clientFrom(r.Context())

	nodes, err := client.Monitor.NodesE(r.Context())
	if err != nil {
		s.queryFailed(w, client.Name, "nodes", err)
		return
	}
	WriteJSON(w, http.StatusOK, swarm.Aggregate(nodes))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, clientFrom(r.Context()).Monitor.CheckHealth(r.Context()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	client := clientFrom(r.Context())
	WriteJSON(w, http.StatusOK, map[string]string{
		"endpoint": client.Name,
		"summary":  client.Monitor.SummaryText(r.Context()),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, clientFrom(r.Context()).Monitor.FullSnapshot(r.Context()))
}

func (s *Server) queryFailed(w http.ResponseWriter, endpoint, query string, err error) {
	s.logger.Warn("query failed", "endpoint", endpoint, "query", query, "error", err)
	WriteError(w, http.StatusServiceUnavailable, query+" query failed: "+err.Error())
}
