// Package cluster holds the optional service-mesh plumbing: Consul
// registration and the health endpoint it probes. A server run without a
// Consul address skips all of this.
package cluster

import (
	"fmt"
	"os"

	consul "github.com/hashicorp/consul/api"

	"tron/internal/logging"
)

// Register announces the service to the Consul agent at consulAddr, with
// an HTTP health check against /health on healthPort. The service id is
// derived from the hostname so multiple nodes can register side by side.
func Register(serviceName string, servicePort, healthPort int, consulAddr string) error {
	config := consul.DefaultConfig()
	config.Address = consulAddr

	client, err := consul.NewClient(config)
	if err != nil {
		return fmt.Errorf("consul client: %w", err)
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: servicePort,
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", hostname, healthPort),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("consul register: %w", err)
	}

	logging.L.Infow("registered in consul", "service", serviceName, "id", serviceID)
	return nil
}
