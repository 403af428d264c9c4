package util

import "strings"

// ShortIDLength is the length docker uses when printing object IDs
const ShortIDLength = 12

// ShortID truncates a swarm object ID (node, service, cluster) to its short form.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// ShortHost strips the transport scheme from a docker host URL for display.
// unix:///var/run/docker.sock becomes /var/run/docker.sock,
// tcp://10.0.0.1:2376 becomes 10.0.0.1:2376.
func ShortHost(host string) string {
	if idx := strings.Index(host, "://"); idx != -1 {
		return host[idx+len("://"):]
	}
	return host
}
