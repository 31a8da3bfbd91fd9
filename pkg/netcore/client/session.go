package client

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
)

func (c *Client) handleTransportConnect() {
	c.mu.RLock()
	playerName := c.playerNameOnConnect
	c.mu.RUnlock()

	msg, err := proto.Encode(proto.TypeJoin, proto.JoinMessage{
		Timestamp:  nowMillis(),
		PlayerName: playerName,
	})
	if err != nil {
		c.log.WithError(err).Error("encode join")
		return
	}
	if err := c.tr.Send(msg); err != nil {
		c.log.WithError(err).Warn("send join")
	}
}

func (c *Client) handleTransportDisconnect(reason string) {
	c.mu.Lock()
	c.state = StateDisconnected
	c.mu.Unlock()
	c.log.WithField("reason", reason).Info("disconnected")
}

func (c *Client) handleTransportMessage(raw []byte) {
	msgType, msg, err := proto.Decode(raw)
	if err != nil {
		c.log.WithError(err).Warn("dropping malformed message")
		return
	}

	switch msgType {
	case proto.TypeJoinAccepted:
		c.handleJoinAccepted(msg.(proto.JoinAcceptedMessage))
	case proto.TypeJoinRejected:
		c.handleJoinRejected(msg.(proto.JoinRejectedMessage))
	case proto.TypeWorldSnapshot:
		c.handleWorldSnapshot(msg.(proto.WorldSnapshotMessage))
	case proto.TypeInputAck:
		c.handleInputAck(msg.(proto.InputAckMessage))
	case proto.TypeEntitySpawn:
		c.handleEntitySpawn(msg.(proto.EntitySpawnMessage))
	case proto.TypeEntityDestroy:
		c.handleEntityDestroy(msg.(proto.EntityDestroyMessage))
	case proto.TypePong:
		c.handlePong(msg.(proto.PongMessage))
	case proto.TypePlayerJoined, proto.TypePlayerLeft:
		// Informational only; entity lifecycle is driven by
		// entity_spawn/entity_destroy/world_snapshot.
	default:
		c.log.WithField("type", msgType).Warn("unhandled message type")
	}
}

func (c *Client) handleJoinAccepted(msg proto.JoinAcceptedMessage) {
	c.mu.Lock()
	c.state = StateConnected
	c.clientID = msg.ClientID
	c.localPlayerNetworkID = msg.NetworkEntityID
	c.serverConfig = msg.ServerConfig
	c.mu.Unlock()

	c.log.WithField("client_id", msg.ClientID).Info("joined")
}

func (c *Client) handleJoinRejected(msg proto.JoinRejectedMessage) {
	c.mu.Lock()
	c.joinRejectedReason = msg.Reason
	c.mu.Unlock()

	c.log.WithField("reason", msg.Reason).Warn("join rejected")
	_ = c.Disconnect()
}

func (c *Client) handleWorldSnapshot(msg proto.WorldSnapshotMessage) {
	c.mu.RLock()
	localID := c.localPlayerNetworkID
	c.mu.RUnlock()

	for _, se := range msg.Entities {
		if se.NetworkEntityID == localID {
			// Materializes the local player on first mention; once it
			// exists, later snapshots never overwrite its predicted state.
			c.ensureLocalPlayer(se)
			continue
		}
		c.ingestRemoteSnapshot(se, msg.Timestamp, msg.Tick)
	}

	for _, id := range msg.RemovedEntityIDs {
		c.destroyByNetworkID(id)
	}
}

func (c *Client) handleEntitySpawn(msg proto.EntitySpawnMessage) {
	c.mu.RLock()
	localID := c.localPlayerNetworkID
	c.mu.RUnlock()
	if msg.Entity.NetworkEntityID == localID {
		c.ensureLocalPlayer(msg.Entity)
		return
	}
	c.ingestRemoteSnapshot(msg.Entity, msg.Timestamp, 0)
}

// ensureLocalPlayer materializes the local player's entity, populated with
// prediction components, the first time it is mentioned in a
// world_snapshot or entity_spawn. Later calls are no-ops.
func (c *Client) ensureLocalPlayer(se proto.SerializedEntity) {
	c.mu.Lock()
	if c.hasLocalPlayer {
		c.mu.Unlock()
		return
	}
	clientID := c.clientID
	maxSize := c.cfg.ReconciliationWindow
	c.mu.Unlock()

	var pos components.Vector2
	if se.Position != nil {
		pos = components.Vector2{X: se.Position.X, Y: se.Position.Y}
	}

	e := c.world.CreateEntity()
	c.world.AddComponent(e, components.NetworkID{
		EntityID:   se.NetworkEntityID,
		OwnerID:    se.OwnerID,
		EntityType: se.EntityType,
	})
	c.world.AddComponent(e, components.NetworkPosition{X: pos.X, Y: pos.Y})
	c.world.AddComponent(e, components.NetworkVelocity{})
	c.world.AddComponent(e, components.NetworkInput{})
	c.world.AddComponent(e, components.NewInputBuffer(maxSize))
	c.world.AddComponent(e, components.ServerState{ServerPosition: pos})
	c.world.AddComponent(e, components.LocalPlayer{ClientID: clientID})
	c.world.AddTag(e, "local-player")

	c.mu.Lock()
	c.localPlayerEntity = e
	c.hasLocalPlayer = true
	c.entitiesByNetworkID[se.NetworkEntityID] = e
	c.mu.Unlock()
}

func (c *Client) handleEntityDestroy(msg proto.EntityDestroyMessage) {
	c.destroyByNetworkID(msg.NetworkEntityID)
}

func (c *Client) destroyByNetworkID(networkEntityID string) {
	c.mu.Lock()
	e, ok := c.entitiesByNetworkID[networkEntityID]
	if ok {
		delete(c.entitiesByNetworkID, networkEntityID)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	c.world.DestroyEntity(e)
}

func (c *Client) handlePong(msg proto.PongMessage) {
	latency := nowMillis() - msg.ClientTime
	offset := msg.ServerTime - nowMillis() + latency/2

	c.mu.Lock()
	c.timeOffsetMillis = offset
	c.mu.Unlock()
}
