package server

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
)

// serializeEntity builds the wire representation of a networked entity.
// Position and velocity are included whenever present; an entity lacking
// NetworkID is never reachable here since callers query on its type.
func serializeEntity(w hostecs.EntityStore, e hostecs.Entity) proto.SerializedEntity {
	idRaw, _ := w.GetComponent(e, (components.NetworkID{}).Type())
	id := idRaw.(components.NetworkID)

	out := proto.SerializedEntity{
		NetworkEntityID: id.EntityID,
		OwnerID:         id.OwnerID,
		EntityType:      id.EntityType,
	}

	if posRaw, ok := w.GetComponent(e, (components.NetworkPosition{}).Type()); ok {
		pos := posRaw.(components.NetworkPosition)
		out.Position = &proto.Vec2{X: pos.X, Y: pos.Y}
	}
	if velRaw, ok := w.GetComponent(e, (components.NetworkVelocity{}).Type()); ok {
		vel := velRaw.(components.NetworkVelocity)
		out.Velocity = &proto.Vec2{X: vel.X, Y: vel.Y}
	}

	return out
}

// spawnMessageFor builds the entity_spawn announcement for e.
func spawnMessageFor(w hostecs.EntityStore, e hostecs.Entity, timestamp int64) proto.EntitySpawnMessage {
	return proto.EntitySpawnMessage{
		Timestamp: timestamp,
		Entity:    serializeEntity(w, e),
	}
}
