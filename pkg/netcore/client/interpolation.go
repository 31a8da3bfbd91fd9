package client

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
)

// ingestRemoteSnapshot materializes a remote entity on first mention and
// appends its reported state to the entity's InterpolationBuffer.
func (c *Client) ingestRemoteSnapshot(se proto.SerializedEntity, timestamp int64, tick uint64) {
	e, ok := c.GetNetworkEntity(se.NetworkEntityID)
	if !ok {
		e = c.materializeRemoteEntity(se)
	}

	var vel *components.Vector2
	if se.Velocity != nil {
		v := components.Vector2{X: se.Velocity.X, Y: se.Velocity.Y}
		vel = &v
	}
	var pos components.Vector2
	if se.Position != nil {
		pos = components.Vector2{X: se.Position.X, Y: se.Position.Y}
	}

	raw, ok := c.world.GetComponent(e, (&components.InterpolationBuffer{}).Type())
	if !ok {
		return
	}
	buf := raw.(*components.InterpolationBuffer)
	buf.Append(components.InterpSnapshot{Position: pos, Velocity: vel, Timestamp: timestamp, Tick: tick})
}

func (c *Client) materializeRemoteEntity(se proto.SerializedEntity) hostecs.Entity {
	e := c.world.CreateEntity()

	var pos components.Vector2
	if se.Position != nil {
		pos = components.Vector2{X: se.Position.X, Y: se.Position.Y}
	}

	c.world.AddComponent(e, components.NetworkID{
		EntityID:   se.NetworkEntityID,
		OwnerID:    se.OwnerID,
		EntityType: se.EntityType,
	})
	c.world.AddComponent(e, components.NetworkPosition{X: pos.X, Y: pos.Y})
	c.world.AddComponent(e, components.NetworkVelocity{})
	c.world.AddComponent(e, components.NewInterpolationBuffer(32, c.cfg.InterpolationDelayMs))

	if se.OwnerID != "" {
		c.world.AddComponent(e, components.RemotePlayer{ClientID: se.OwnerID})
		c.world.AddTag(e, "remote-player")
	}

	c.mu.Lock()
	c.entitiesByNetworkID[se.NetworkEntityID] = e
	c.mu.Unlock()

	return e
}

// InterpolatePosition implements the §4.5 render-time lookup over a
// remote entity's buffered snapshots, ordered oldest first. ok is false
// only when snapshots is empty.
func InterpolatePosition(snapshots []components.InterpSnapshot, renderTimeMillis int64) (components.Vector2, bool) {
	n := len(snapshots)
	if n == 0 {
		return components.Vector2{}, false
	}
	if n == 1 {
		return snapshots[0].Position, true
	}

	latest := snapshots[n-1]
	if renderTimeMillis > latest.Timestamp {
		if latest.Velocity == nil {
			return latest.Position, true
		}
		elapsedS := float64(renderTimeMillis-latest.Timestamp) / 1000
		return latest.Position.Add(latest.Velocity.Scale(elapsedS)), true
	}

	idx := 0
	for i := 0; i < n-1; i++ {
		if renderTimeMillis >= snapshots[i].Timestamp && renderTimeMillis <= snapshots[i+1].Timestamp {
			idx = i
			break
		}
	}
	a, b := snapshots[idx], snapshots[idx+1]
	denom := b.Timestamp - a.Timestamp
	if denom <= 0 {
		return a.Position, true
	}
	t := float64(renderTimeMillis-a.Timestamp) / float64(denom)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return components.LerpVector2(a.Position, b.Position, t), true
}

// interpolationSystem writes the render-time interpolated position to
// every remote entity's NetworkPosition, once per variable-rate tick.
// It never touches the local player.
type interpolationSystem struct{ c *Client }

func (sys interpolationSystem) Update(w hostecs.EntityStore, dt float64) {
	if !sys.c.cfg.EnableInterpolation {
		return
	}

	bufType := (&components.InterpolationBuffer{}).Type()

	now := nowMillis()
	for _, e := range w.Query(bufType) {
		raw, ok := w.GetComponent(e, bufType)
		if !ok {
			continue
		}
		buf := raw.(*components.InterpolationBuffer)
		renderTime := now - buf.DelayMillis()

		pos, ok := InterpolatePosition(buf.Snapshots(), renderTime)
		if !ok {
			continue
		}
		w.AddComponent(e, components.NetworkPosition{X: pos.X, Y: pos.Y})
	}
}
