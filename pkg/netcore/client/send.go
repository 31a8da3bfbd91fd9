package client

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
)

// sendSystem runs the fixed tick after prediction: it captures the local
// player's current input and, unless the input is entirely default,
// buffers it under a new sequence and emits an input message. Skipping
// default-input frames is a bandwidth optimization; the reconciler does
// not depend on continuous sequences.
type sendSystem struct{ c *Client }

func (sys sendSystem) Update(w hostecs.EntityStore, dt float64) {
	c := sys.c
	if !c.IsConnected() {
		return
	}

	inputType := (components.NetworkInput{}).Type()
	bufType := (&components.InputBuffer{}).Type()
	localType := (components.LocalPlayer{}).Type()

	for _, e := range w.Query(inputType, bufType, localType) {
		inputRaw, _ := w.GetComponent(e, inputType)
		input := inputRaw.(components.NetworkInput)
		if input.IsDefault() {
			continue
		}

		bufRaw, _ := w.GetComponent(e, bufType)
		buf := bufRaw.(*components.InputBuffer)

		sample := input.Sample()
		timestamp := nowMillis()
		entry := buf.Append(sample, timestamp)

		msg, err := proto.Encode(proto.TypeInput, proto.InputMessage{
			Timestamp: timestamp,
			Sequence:  entry.Sequence,
			Inputs: proto.InputState{
				MoveX:   sample.MoveX,
				MoveY:   sample.MoveY,
				AimX:    sample.AimX,
				AimY:    sample.AimY,
				Actions: sample.Actions,
			},
		})
		if err != nil {
			c.log.WithError(err).Error("encode input")
			continue
		}
		if err := c.tr.Send(msg); err != nil {
			c.log.WithError(err).Warn("send input")
		}
	}
}
