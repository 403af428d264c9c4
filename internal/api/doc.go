// Package api serves swarm state over HTTP. Routes:
//
//	GET /healthz
//	GET /metrics
//	GET /api/v1/endpoints
//	GET /api/v1/endpoints/{name}/info
//	GET /api/v1/endpoints/{name}/nodes
//	GET /api/v1/endpoints/{name}/services
//	GET /api/v1/endpoints/{name}/resources
//	GET /api/v1/endpoints/{name}/alerts
//	GET /api/v1/endpoints/{name}/summary
//	GET /api/v1/endpoints/{name}/snapshot
//
// List routes answer 503 when their query failed, so an empty list always
// means an empty cluster.
package api
