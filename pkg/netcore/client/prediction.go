package client

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/simulate"
)

// predictionSystem advances the local player's position from its current
// input every fixed tick, ahead of the send system, per §4.4. It never
// touches remote entities.
type predictionSystem struct{ c *Client }

func (sys predictionSystem) Update(w hostecs.EntityStore, dt float64) {
	c := sys.c
	if !c.cfg.EnablePrediction {
		return
	}

	inputType := (components.NetworkInput{}).Type()
	posType := (components.NetworkPosition{}).Type()
	velType := (components.NetworkVelocity{}).Type()
	localType := (components.LocalPlayer{}).Type()

	for _, e := range w.Query(posType, velType, inputType, localType) {
		posRaw, _ := w.GetComponent(e, posType)
		pos := posRaw.(components.NetworkPosition)
		inputRaw, _ := w.GetComponent(e, inputType)
		input := inputRaw.(components.NetworkInput)

		next, vel := simulate.Integrate(pos.Vector(), components.Vector2{X: input.MoveX, Y: input.MoveY}, c.moveSpeed, dt, c.bounds)

		w.AddComponent(e, components.NetworkPosition{X: next.X, Y: next.Y})
		w.AddComponent(e, components.NetworkVelocity{X: vel.X, Y: vel.Y})
	}
}
