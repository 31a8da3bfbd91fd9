// Command netserver is the demo authoritative server binary: it wires
// pkg/netcore/hostecs's reference World to pkg/netcore/engine's server
// façade over a transport/ws listener, and runs the fixed-step tick loop.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaelstrand/netplay/pkg/netcore/config"
	"github.com/kaelstrand/netplay/pkg/netcore/engine"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/transport/ws"
)

var (
	host     = flag.String("host", "0.0.0.0", "Bind address")
	port     = flag.Int("port", 9090, "Server port")
	path     = flag.String("path", "/ws", "Websocket upgrade path")
	tickRate = flag.Int("tick-rate", 20, "Fixed simulation step rate, in Hz")
	verbose  = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	log.Printf("Starting netplay server")
	log.Printf("Bind: %s:%d%s, Tick Rate: %d Hz", *host, *port, *path, *tickRate)

	world := hostecs.NewWorld()

	tr := ws.NewServer()
	tr.Path = *path

	cfg := config.DefaultNetworkConfig()
	cfg.TickRate = *tickRate
	cfg.Debug = *verbose

	net := engine.NewServerNetwork(world, world, tr, cfg)

	if err := net.Listen(*port, *host); err != nil {
		log.Fatalf("listen: %v", err)
	}
	log.Printf("Listening on ws://%s%s", tr.Addr(), *path)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	dt := 1.0 / float64(cfg.TickRate)
	for {
		select {
		case <-ticker.C:
			tr.Drain()
			world.FixedStep(dt)
			world.Update(dt)
		case <-sig:
			log.Printf("Shutting down")
			if err := net.Close(); err != nil {
				log.Printf("close: %v", err)
			}
			world.Shutdown()
			return
		}
	}
}
