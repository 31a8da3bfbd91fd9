package components

import "github.com/kaelstrand/netplay/pkg/netcore/hostecs"

// SpawnOptions describes a network entity to create via the engine
// façade's create_network_entity call. EntityType is required; the rest
// are optional and left zero/nil when unused.
type SpawnOptions struct {
	EntityType           string
	Position             *Vector2
	Velocity             *Vector2
	AdditionalComponents []hostecs.Component
	Tags                 []string
}
