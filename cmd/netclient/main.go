// Command netclient is the demo predicting-client binary: it wires
// pkg/netcore/hostecs's reference World to pkg/netcore/engine's client
// façade over a transport/ws connection, drives a scripted input pattern,
// and logs the local player's predicted position once every tick-rate
// ticks (once a second).
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/config"
	"github.com/kaelstrand/netplay/pkg/netcore/engine"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/transport/ws"
)

var (
	url        = flag.String("url", "ws://127.0.0.1:9090/ws", "Server websocket URL")
	playerName = flag.String("name", "player", "Player name sent on join")
	tickRate   = flag.Int("tick-rate", 60, "Fixed prediction step rate, in Hz")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	log.Printf("Starting netplay client")
	log.Printf("Server: %s, Name: %q, Tick Rate: %d Hz", *url, *playerName, *tickRate)

	world := hostecs.NewWorld()

	tr := ws.NewClient()

	cfg := config.DefaultNetworkConfig()
	cfg.ClientTickRate = *tickRate
	cfg.Debug = *verbose

	net := engine.NewClientNetwork(world, world, tr, cfg)

	if err := net.Connect(*url, *playerName); err != nil {
		log.Fatalf("connect: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*tickRate))
	defer ticker.Stop()

	dt := 1.0 / float64(*tickRate)
	moveX := 1.0
	var tick int

	for {
		select {
		case <-ticker.C:
			tr.Drain()

			if net.IsConnected() {
				_ = net.SetInput(components.InputPatch{MoveX: &moveX})
			}

			world.FixedStep(dt)
			world.Update(dt)

			tick++
			if tick%(*tickRate) == 0 {
				if player, ok := net.GetLocalPlayer(); ok {
					if pos, ok := world.GetComponent(player, "NetworkPosition"); ok {
						log.Printf("local player %d: %+v", player, pos)
					}
				}
			}
		case <-sig:
			log.Printf("Shutting down")
			if err := net.Disconnect(); err != nil {
				log.Printf("disconnect: %v", err)
			}
			world.Shutdown()
			return
		}
	}
}
