package client

import "github.com/kaelstrand/netplay/pkg/netcore/components"

// SetInput applies a partial input update to the local player's
// NetworkInput, replacing only the provided fields. It is a no-op before
// the local player entity has been materialized.
func (c *Client) SetInput(patch components.InputPatch) {
	c.mu.RLock()
	e, ok := c.localPlayerEntity, c.hasLocalPlayer
	c.mu.RUnlock()
	if !ok {
		return
	}

	inputType := (components.NetworkInput{}).Type()
	raw, ok := c.world.GetComponent(e, inputType)
	if !ok {
		return
	}
	input := raw.(components.NetworkInput)
	input.Apply(patch)
	c.world.AddComponent(e, input)
}
