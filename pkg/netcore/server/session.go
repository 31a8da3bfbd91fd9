package server

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// handleTransportConnect records a pending connection. No entity is
// created yet — that happens on join, per §4.7.
func (s *Server) handleTransportConnect(id transport.ConnectionID) {
	s.mu.Lock()
	s.clients[id] = &ClientConnection{ID: id, JoinedAt: s.now()}
	s.mu.Unlock()
	s.log.WithField("connection", id).Debug("client connected")
}

// handleTransportDisconnect tears down a joined client's entity and
// broadcasts player_left. Disconnecting a never-joined connection is a
// silent no-op beyond bookkeeping removal.
func (s *Server) handleTransportDisconnect(id transport.ConnectionID, reason string) {
	s.mu.Lock()
	client, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	s.log.WithFields(map[string]any{"connection": id, "reason": reason}).Info("client disconnected")

	if !client.Joined {
		return
	}

	s.world.DestroyEntity(client.Entity)
	destroyMsg, err := proto.Encode(proto.TypeEntityDestroy, proto.EntityDestroyMessage{
		Timestamp:       s.nowMillis(),
		NetworkEntityID: client.NetworkEntityID,
	})
	if err == nil {
		s.tr.Broadcast(destroyMsg)
	}

	leftMsg, err := proto.Encode(proto.TypePlayerLeft, proto.PlayerLeftMessage{
		Timestamp: s.nowMillis(),
		ClientID:  string(id),
	})
	if err == nil {
		s.tr.Broadcast(leftMsg)
	}
}

func (s *Server) nowMillis() int64 {
	return s.now().UnixMilli()
}

// handleTransportMessage decodes and dispatches one inbound message.
func (s *Server) handleTransportMessage(id transport.ConnectionID, raw []byte) {
	msgType, msg, err := proto.Decode(raw)
	if err != nil {
		s.log.WithError(err).Warn("dropping malformed message")
		return
	}

	switch msgType {
	case proto.TypeJoin:
		join := msg.(proto.JoinMessage)
		s.handleJoin(id, join)
	case proto.TypeInput:
		input := msg.(proto.InputMessage)
		s.handleInput(id, input)
	case proto.TypePing:
		ping := msg.(proto.PingMessage)
		s.handlePing(id, ping)
	default:
		s.log.WithField("type", msgType).Warn("unhandled message type")
	}
}

// handleJoin creates the newcomer's player entity, records the session,
// and replies join_accepted plus player_joined to everyone else.
func (s *Server) handleJoin(id transport.ConnectionID, join proto.JoinMessage) {
	s.mu.Lock()
	client, ok := s.clients[id]
	if !ok || client.Joined {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	entity := s.world.CreateEntity()
	entityID := s.allocateEntityID()
	s.mu.Lock()
	spawnX := s.rng.Float64() * s.bounds.MaxX
	spawnY := s.rng.Float64() * s.bounds.MaxY
	s.mu.Unlock()

	s.world.AddComponent(entity, components.NetworkID{
		EntityID:   entityID,
		OwnerID:    string(id),
		EntityType: "player",
	})
	s.world.AddComponent(entity, components.NetworkPosition{X: spawnX, Y: spawnY})
	s.world.AddComponent(entity, components.NetworkVelocity{})
	s.world.AddComponent(entity, &components.ClientInputState{})
	s.world.AddTag(entity, "player")

	s.mu.Lock()
	client.Joined = true
	client.PlayerName = join.PlayerName
	client.NetworkEntityID = entityID
	client.Entity = entity
	s.mu.Unlock()

	accepted, err := proto.Encode(proto.TypeJoinAccepted, proto.JoinAcceptedMessage{
		Timestamp:       s.nowMillis(),
		ClientID:        string(id),
		NetworkEntityID: entityID,
		ServerConfig:    s.serverConfigPayload(),
		ServerTime:      s.nowMillis(),
	})
	if err != nil {
		s.log.WithError(err).Error("encode join_accepted")
		return
	}
	if err := s.tr.Send(id, accepted); err != nil {
		s.log.WithError(err).Warn("send join_accepted")
	}

	joined, err := proto.Encode(proto.TypePlayerJoined, proto.PlayerJoinedMessage{
		Timestamp:       s.nowMillis(),
		ClientID:        string(id),
		PlayerName:      join.PlayerName,
		NetworkEntityID: entityID,
	})
	if err == nil {
		s.tr.BroadcastExcept(id, joined)
	}

	s.log.WithFields(map[string]any{"connection": id, "player_name": join.PlayerName}).Info("client joined")
}

func (s *Server) handlePing(id transport.ConnectionID, ping proto.PingMessage) {
	pong, err := proto.Encode(proto.TypePong, proto.PongMessage{
		Timestamp:  s.nowMillis(),
		ClientTime: ping.ClientTime,
		ServerTime: s.nowMillis(),
	})
	if err != nil {
		s.log.WithError(err).Error("encode pong")
		return
	}
	if err := s.tr.Send(id, pong); err != nil {
		s.log.WithError(err).Warn("send pong")
	}
}
