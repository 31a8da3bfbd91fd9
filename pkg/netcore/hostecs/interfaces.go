package hostecs

// EntityStore is the entity/component/tag storage surface the network
// core requires from its host. *World satisfies it; a production game
// engine can implement it directly against its own entity storage instead
// of depending on this package.
type EntityStore interface {
	CreateEntity() Entity
	DestroyEntity(id Entity)
	Exists(id Entity) bool

	AddComponent(id Entity, c Component)
	GetComponent(id Entity, componentType string) (Component, bool)
	HasComponent(id Entity, componentType string) bool
	RemoveComponent(id Entity, componentType string)

	AddTag(id Entity, tag string)
	HasTag(id Entity, tag string) bool
	RemoveTag(id Entity, tag string)

	Query(all ...string) []Entity

	AttachAPI(name string, api any)
	GetAPI(name string) (any, bool)

	OnShutdown(fn func())
}

// SystemScheduler is the system-registration and stepping surface the
// network core requires from its host.
type SystemScheduler interface {
	AddSystem(reg SystemRegistration)
	FixedStep(dt float64)
	Update(dt float64)
}

var (
	_ EntityStore     = (*World)(nil)
	_ SystemScheduler = (*World)(nil)
)
