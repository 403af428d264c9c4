// Package swarm holds the cluster state model and the pure functions that
// turn raw orchestrator records into it.
//
// The pipeline for one evaluation is:
//
//	raw records --NormalizeNode/NormalizeService--> []Node, []Service
//	[]Node                --Aggregate-->  ClusterResources
//	[]Node, []Service     --Evaluate-->   []Alert
//	identity + all above  --Render-->     summary text
//
// Nothing here performs I/O or keeps state between calls; the monitor
// package drives these functions against a live daemon.
package swarm
