// Package provider wires concrete gateways behind the GatewaySelector port.
package provider

import (
	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"
)

// Registry implements ports.GatewaySelector over a fixed set of gateways.
type Registry struct {
	gateways map[domain.Provider]ports.ProviderGateway
}

// NewRegistry builds a registry from the configured gateways.
func NewRegistry(gateways ...ports.ProviderGateway) *Registry {
	m := make(map[domain.Provider]ports.ProviderGateway, len(gateways))
	for _, g := range gateways {
		m[g.Provider()] = g
	}
	return &Registry{gateways: m}
}

// ForProvider resolves the gateway for a provider.
func (r *Registry) ForProvider(p domain.Provider) (ports.ProviderGateway, error) {
	g, ok := r.gateways[p]
	if !ok {
		return nil, apperror.ErrUnknownProvider(string(p))
	}
	return g, nil
}
