// Package proto defines the wire protocol: the tagged-union message set
// exchanged between client and server, and a JSON codec for it.
//
// Every message carries a "type" string discriminator and a "timestamp"
// (sender's monotonic time in milliseconds). Client->server kinds: join,
// input, ping. Server->client kinds: join_accepted, join_rejected,
// world_snapshot, input_ack, entity_spawn, entity_destroy, player_joined,
// player_left, pong.
package proto

// Message type discriminators.
const (
	TypeJoin           = "join"
	TypeInput          = "input"
	TypePing           = "ping"
	TypeJoinAccepted   = "join_accepted"
	TypeJoinRejected   = "join_rejected"
	TypeWorldSnapshot  = "world_snapshot"
	TypeInputAck       = "input_ack"
	TypeEntitySpawn    = "entity_spawn"
	TypeEntityDestroy  = "entity_destroy"
	TypePlayerJoined   = "player_joined"
	TypePlayerLeft     = "player_left"
	TypePong           = "pong"
)

// InputState is the snapshot of a single input sample: movement, aim, and
// an opaque action-name to pressed-state map.
type InputState struct {
	MoveX   float64         `json:"move_x"`
	MoveY   float64         `json:"move_y"`
	AimX    float64         `json:"aim_x"`
	AimY    float64         `json:"aim_y"`
	Actions map[string]bool `json:"actions,omitempty"`
}

// Vec2 is a wire-format 2D vector.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SerializedEntity is the wire representation of a networked entity's
// state, used in world_snapshot and entity_spawn.
type SerializedEntity struct {
	NetworkEntityID string          `json:"network_entity_id"`
	OwnerID         string          `json:"owner_id,omitempty"`
	EntityType      string          `json:"entity_type"`
	Position        *Vec2           `json:"position,omitempty"`
	Velocity        *Vec2           `json:"velocity,omitempty"`
	Rotation        *float64        `json:"rotation,omitempty"`
	Components      map[string]any  `json:"components,omitempty"`
}

// JoinMessage is sent client->server to request joining a session.
type JoinMessage struct {
	Timestamp     int64  `json:"timestamp"`
	PlayerName    string `json:"player_name"`
	ClientVersion string `json:"client_version,omitempty"`
}

// InputMessage is sent client->server carrying one sequenced input sample.
type InputMessage struct {
	Timestamp int64      `json:"timestamp"`
	Sequence  uint64     `json:"sequence"`
	Inputs    InputState `json:"inputs"`
}

// PingMessage is sent client->server to measure latency.
type PingMessage struct {
	Timestamp  int64 `json:"timestamp"`
	ClientTime int64 `json:"client_time"`
}

// JoinAcceptedMessage is sent server->client on successful join.
type JoinAcceptedMessage struct {
	Timestamp       int64          `json:"timestamp"`
	ClientID        string         `json:"client_id"`
	NetworkEntityID string         `json:"network_entity_id"`
	ServerConfig    map[string]any `json:"server_config,omitempty"`
	ServerTime      int64          `json:"server_time"`
}

// JoinRejectedMessage is sent server->client when a join is refused.
type JoinRejectedMessage struct {
	Timestamp int64  `json:"timestamp"`
	Reason    string `json:"reason"`
}

// WorldSnapshotMessage is a periodic broadcast of authoritative entity state.
type WorldSnapshotMessage struct {
	Timestamp        int64              `json:"timestamp"`
	Tick             uint64             `json:"tick"`
	Entities         []SerializedEntity `json:"entities"`
	RemovedEntityIDs []string           `json:"removed_entity_ids,omitempty"`
}

// InputAckMessage acknowledges a processed input, carrying post-simulation
// state at receipt time.
type InputAckMessage struct {
	Timestamp  int64  `json:"timestamp"`
	Sequence   uint64 `json:"sequence"`
	Position   Vec2   `json:"position"`
	Velocity   *Vec2  `json:"velocity,omitempty"`
	ServerTick uint64 `json:"server_tick"`
	ServerTime int64  `json:"server_time"`
}

// EntitySpawnMessage announces a newly created networked entity.
type EntitySpawnMessage struct {
	Timestamp int64            `json:"timestamp"`
	Entity    SerializedEntity `json:"serialized_entity"`
}

// EntityDestroyMessage announces the removal of a networked entity.
type EntityDestroyMessage struct {
	Timestamp       int64  `json:"timestamp"`
	NetworkEntityID string `json:"network_entity_id"`
}

// PlayerJoinedMessage announces another client's successful join.
type PlayerJoinedMessage struct {
	Timestamp       int64  `json:"timestamp"`
	ClientID        string `json:"client_id"`
	PlayerName      string `json:"player_name"`
	NetworkEntityID string `json:"network_entity_id"`
}

// PlayerLeftMessage announces a client's disconnection.
type PlayerLeftMessage struct {
	Timestamp int64  `json:"timestamp"`
	ClientID  string `json:"client_id"`
}

// PongMessage answers a PingMessage.
type PongMessage struct {
	Timestamp  int64 `json:"timestamp"`
	ClientTime int64 `json:"client_time"`
	ServerTime int64 `json:"server_time"`
}
