package client

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
)

// CreateNetworkEntity creates a locally-tracked networked entity. The
// protocol has no client->server entity-creation message, so this never
// leaves the host: it is for client-local decoration (e.g. predicted
// hit-effects) that the host wants addressable the same way as
// server-announced entities.
func (c *Client) CreateNetworkEntity(opts components.SpawnOptions) (hostecs.Entity, error) {
	if opts.EntityType == "" {
		return 0, fmt.Errorf("client: create network entity: entity_type is required")
	}

	id := uuid.NewString()
	e := c.world.CreateEntity()
	c.world.AddComponent(e, components.NetworkID{EntityID: id, EntityType: opts.EntityType})
	if opts.Position != nil {
		c.world.AddComponent(e, components.NetworkPosition{X: opts.Position.X, Y: opts.Position.Y})
	}
	if opts.Velocity != nil {
		c.world.AddComponent(e, components.NetworkVelocity{X: opts.Velocity.X, Y: opts.Velocity.Y})
	}
	for _, comp := range opts.AdditionalComponents {
		c.world.AddComponent(e, comp)
	}
	for _, tag := range opts.Tags {
		c.world.AddTag(e, tag)
	}

	c.mu.Lock()
	c.entitiesByNetworkID[id] = e
	c.mu.Unlock()

	return e, nil
}

// DestroyNetworkEntity destroys a locally-tracked entity by its
// network_entity_id. A no-op for an unknown id or one owned by the
// server-driven snapshot/spawn path once destroyed by the server.
func (c *Client) DestroyNetworkEntity(networkEntityID string) {
	c.destroyByNetworkID(networkEntityID)
}
