package server

import (
	"fmt"

	capi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// Registrar registers the service in Consul with an HTTP health check
// against /health. Registration is optional; main skips it when no Consul
// address is configured.
type Registrar struct {
	ServiceID   string
	ServiceName string
	Addr        string
	Port        int
	client      *capi.Client
	log         *zap.Logger
}

func NewRegistrar(consulAddr, serviceName, addr string, port int, log *zap.Logger) (*Registrar, error) {
	config := capi.DefaultConfig()
	if consulAddr != "" {
		config.Address = consulAddr
	}
	client, err := capi.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("creating consul client: %w", err)
	}
	return &Registrar{
		ServiceID:   serviceName,
		ServiceName: serviceName,
		Addr:        addr,
		Port:        port,
		client:      client,
		log:         log,
	}, nil
}

func (r *Registrar) Register() error {
	reg := &capi.AgentServiceRegistration{
		ID:      r.ServiceID,
		Name:    r.ServiceName,
		Address: r.Addr,
		Port:    r.Port,
		Check: &capi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", r.Addr, r.Port),
			Interval:                       "10s",
			Timeout:                        "1s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := r.client.Agent().ServiceRegister(reg); err != nil {
		return fmt.Errorf("registering service: %w", err)
	}
	r.log.Info("registered in consul", zap.String("service_id", r.ServiceID))
	return nil
}

func (r *Registrar) Deregister() {
	if err := r.client.Agent().ServiceDeregister(r.ServiceID); err != nil {
		r.log.Warn("deregistering service", zap.Error(err))
		return
	}
	r.log.Info("deregistered from consul", zap.String("service_id", r.ServiceID))
}
