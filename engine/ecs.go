package engine

import (
	"reflect"
	"sync"
	"time"
)

// Entity is a unique identifier for an entity
type Entity uint64

// Component is a marker interface for all components.
// Components are stored as pointers so systems can mutate them in place.
type Component interface{}

// System is an interface that all systems must implement
type System interface {
	Update(world *World, dt time.Duration)
	Priority() int // Lower values run first
}

// Receiver is an optional System extension for synchronous event delivery
type Receiver interface {
	Receive(world *World, event any)
}

// World contains all entities and their components
type World struct {
	mu               sync.RWMutex
	nextEntityID     Entity
	entities         map[Entity]map[reflect.Type]Component
	componentsByType map[reflect.Type][]Entity // Reverse index: component type -> entities
	systems          []System
}

// NewWorld creates a new ECS world
func NewWorld() *World {
	return &World{
		nextEntityID:     1,
		entities:         make(map[Entity]map[reflect.Type]Component),
		componentsByType: make(map[reflect.Type][]Entity),
		systems:          make([]System, 0),
	}
}

// CreateEntity creates a new entity and returns its ID
func (w *World) CreateEntity() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextEntityID
	w.nextEntityID++
	w.entities[id] = make(map[reflect.Type]Component)
	return id
}

// DestroyEntity removes an entity and all its components
func (w *World) DestroyEntity(entity Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if components, ok := w.entities[entity]; ok {
		for compType := range components {
			w.removeFromTypeIndex(entity, compType)
		}
	}
	delete(w.entities, entity)
}

// AddComponent adds a component to an entity
func (w *World) AddComponent(entity Entity, component Component) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entities[entity]; !ok {
		return // Entity doesn't exist
	}

	compType := reflect.TypeOf(component)
	w.entities[entity][compType] = component
	w.addToTypeIndex(entity, compType)
}

// GetComponent retrieves a component from an entity
func (w *World) GetComponent(entity Entity, componentType reflect.Type) (Component, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if components, ok := w.entities[entity]; ok {
		if comp, ok := components[componentType]; ok {
			return comp, true
		}
	}
	return nil, false
}

// RemoveComponent removes a component from an entity
func (w *World) RemoveComponent(entity Entity, componentType reflect.Type) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if components, ok := w.entities[entity]; ok {
		delete(components, componentType)
		w.removeFromTypeIndex(entity, componentType)
	}
}

// HasComponent checks if an entity has a specific component
func (w *World) HasComponent(entity Entity, componentType reflect.Type) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if components, ok := w.entities[entity]; ok {
		_, ok := components[componentType]
		return ok
	}
	return false
}

// EntitiesWith returns all entities that have the specified component types
func (w *World) EntitiesWith(componentTypes ...reflect.Type) []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(componentTypes) == 0 {
		return nil
	}

	candidates := w.componentsByType[componentTypes[0]]
	if candidates == nil {
		return nil
	}

	result := make([]Entity, 0, len(candidates))
	for _, entity := range candidates {
		hasAll := true
		for _, compType := range componentTypes {
			if !w.hasComponentUnsafe(entity, compType) {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, entity)
		}
	}
	return result
}

// hasComponentUnsafe checks for component without locking (assumes lock is held)
func (w *World) hasComponentUnsafe(entity Entity, componentType reflect.Type) bool {
	if components, ok := w.entities[entity]; ok {
		_, ok := components[componentType]
		return ok
	}
	return false
}

// AddSystem adds a system to the world and sorts by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)

	// Sort systems by priority (bubble sort is fine for small number of systems)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Update runs all systems
func (w *World) Update(dt time.Duration) {
	w.mu.RLock()
	systems := make([]System, len(w.systems))
	copy(systems, w.systems)
	w.mu.RUnlock()

	for _, system := range systems {
		system.Update(w, dt)
	}
}

// Emit delivers an event synchronously to every system implementing Receiver.
// Fire-and-forget: no return value, no ordering beyond system priority.
func (w *World) Emit(event any) {
	w.mu.RLock()
	systems := make([]System, len(w.systems))
	copy(systems, w.systems)
	w.mu.RUnlock()

	for _, system := range systems {
		if r, ok := system.(Receiver); ok {
			r.Receive(w, event)
		}
	}
}

// addToTypeIndex adds entity to the component type index
func (w *World) addToTypeIndex(entity Entity, componentType reflect.Type) {
	entities := w.componentsByType[componentType]
	for _, e := range entities {
		if e == entity {
			return
		}
	}
	w.componentsByType[componentType] = append(entities, entity)
}

// removeFromTypeIndex removes entity from the component type index
func (w *World) removeFromTypeIndex(entity Entity, componentType reflect.Type) {
	entities := w.componentsByType[componentType]
	for i, e := range entities {
		if e == entity {
			// Remove by swapping with last element and truncating
			w.componentsByType[componentType][i] = entities[len(entities)-1]
			w.componentsByType[componentType] = entities[:len(entities)-1]
			return
		}
	}
}

// EntityCount returns the number of entities in the world
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}
