package proto

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire shape every message is wrapped in: a type
// discriminator plus the raw payload, decoded in two passes (type first,
// then the matching struct).
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode serializes a typed message into its tagged-union wire form.
// msg must be one of the *Message types declared in messages.go.
func Encode(msgType string, msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msgType, err)
	}
	env := envelope{Type: msgType, Data: data}
	out, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope for %s: %w", msgType, err)
	}
	return out, nil
}

// ErrUnknownMessageType is returned by Decode when the envelope's type
// discriminator does not match any known message kind.
var ErrUnknownMessageType = fmt.Errorf("proto: unknown message type")

// Decode unwraps a tagged-union message and returns its type discriminator
// plus the decoded payload as one of the *Message types. Callers type-switch
// on the returned value. An unknown type or malformed payload returns
// ErrUnknownMessageType or a wrapped decode error respectively — per the
// protocol's error policy, the caller should drop the message and emit an
// error event rather than treat this as fatal.
func Decode(raw []byte) (string, any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case TypeJoin:
		var m JoinMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypeInput:
		var m InputMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypePing:
		var m PingMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypeJoinAccepted:
		var m JoinAcceptedMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypeJoinRejected:
		var m JoinRejectedMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypeWorldSnapshot:
		var m WorldSnapshotMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypeInputAck:
		var m InputAckMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypeEntitySpawn:
		var m EntitySpawnMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypeEntityDestroy:
		var m EntityDestroyMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypePlayerJoined:
		var m PlayerJoinedMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypePlayerLeft:
		var m PlayerLeftMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	case TypePong:
		var m PongMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Type, nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return env.Type, m, nil
	default:
		return env.Type, nil, ErrUnknownMessageType
	}
}
