package server

import (
	"fmt"

	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
)

// CreateNetworkEntity creates a server-authoritative networked entity
// outside the join flow (e.g. world props, AI-controlled actors) and
// broadcasts its entity_spawn to every connected client.
func (s *Server) CreateNetworkEntity(opts components.SpawnOptions) (hostecs.Entity, error) {
	if opts.EntityType == "" {
		return 0, fmt.Errorf("server: create network entity: entity_type is required")
	}

	e := s.world.CreateEntity()
	s.world.AddComponent(e, components.NetworkID{
		EntityID:   s.allocateEntityID(),
		EntityType: opts.EntityType,
	})
	if opts.Position != nil {
		s.world.AddComponent(e, components.NetworkPosition{X: opts.Position.X, Y: opts.Position.Y})
	}
	if opts.Velocity != nil {
		s.world.AddComponent(e, components.NetworkVelocity{X: opts.Velocity.X, Y: opts.Velocity.Y})
	}
	for _, c := range opts.AdditionalComponents {
		s.world.AddComponent(e, c)
	}
	for _, tag := range opts.Tags {
		s.world.AddTag(e, tag)
	}

	spawn, err := proto.Encode(proto.TypeEntitySpawn, spawnMessageFor(s.world, e, s.now().UnixMilli()))
	if err != nil {
		s.log.WithError(err).Error("encode entity_spawn")
		return e, nil
	}
	s.tr.Broadcast(spawn)

	return e, nil
}

// DestroyNetworkEntity destroys the entity identified by networkEntityID,
// if it exists, and broadcasts entity_destroy. A no-op for an unknown id.
func (s *Server) DestroyNetworkEntity(networkEntityID string) {
	e, ok := s.findByNetworkID(networkEntityID)
	if !ok {
		return
	}
	s.world.DestroyEntity(e)

	destroyMsg, err := proto.Encode(proto.TypeEntityDestroy, proto.EntityDestroyMessage{
		Timestamp:       s.now().UnixMilli(),
		NetworkEntityID: networkEntityID,
	})
	if err != nil {
		s.log.WithError(err).Error("encode entity_destroy")
		return
	}
	s.tr.Broadcast(destroyMsg)
}

// GetNetworkEntity resolves a network_entity_id to its host entity handle.
func (s *Server) GetNetworkEntity(networkEntityID string) (hostecs.Entity, bool) {
	return s.findByNetworkID(networkEntityID)
}

func (s *Server) findByNetworkID(networkEntityID string) (hostecs.Entity, bool) {
	idType := (components.NetworkID{}).Type()
	for _, e := range s.world.Query(idType) {
		raw, ok := s.world.GetComponent(e, idType)
		if !ok {
			continue
		}
		if raw.(components.NetworkID).EntityID == networkEntityID {
			return e, true
		}
	}
	return 0, false
}
