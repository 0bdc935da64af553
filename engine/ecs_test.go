package engine

import (
	"reflect"
	"testing"
	"time"
)

// MockComponent for testing
type MockComponent struct {
	Value int
}

var mockType = reflect.TypeOf(&MockComponent{})

func TestEntityComponentLifecycle(t *testing.T) {
	world := NewWorld()

	entity := world.CreateEntity()
	world.AddComponent(entity, &MockComponent{Value: 42})

	comp, ok := world.GetComponent(entity, mockType)
	if !ok {
		t.Fatal("Expected component present")
	}
	if comp.(*MockComponent).Value != 42 {
		t.Errorf("Expected value 42, got %d", comp.(*MockComponent).Value)
	}

	// Components are pointers: mutation is visible through the store
	comp.(*MockComponent).Value = 7
	again, _ := world.GetComponent(entity, mockType)
	if again.(*MockComponent).Value != 7 {
		t.Error("Expected in-place mutation to be visible")
	}

	world.RemoveComponent(entity, mockType)
	if world.HasComponent(entity, mockType) {
		t.Error("Expected component removed")
	}
}

func TestEntitiesWithIndexMaintenance(t *testing.T) {
	world := NewWorld()

	entity1 := world.CreateEntity()
	entity2 := world.CreateEntity()
	entity3 := world.CreateEntity()

	world.AddComponent(entity1, &MockComponent{Value: 1})
	world.AddComponent(entity2, &MockComponent{Value: 2})
	world.AddComponent(entity3, &MockComponent{Value: 3})

	if got := len(world.EntitiesWith(mockType)); got != 3 {
		t.Errorf("Expected 3 entities, got %d", got)
	}

	world.DestroyEntity(entity2)
	if got := len(world.EntitiesWith(mockType)); got != 2 {
		t.Errorf("Expected 2 entities after destruction, got %d", got)
	}

	world.RemoveComponent(entity1, mockType)
	if got := len(world.EntitiesWith(mockType)); got != 1 {
		t.Errorf("Expected 1 entity after component removal, got %d", got)
	}
}

// countingSystem records updates and received events
type countingSystem struct {
	priority int
	updates  int
	events   []any
	order    *[]int
}

func (s *countingSystem) Update(world *World, dt time.Duration) {
	s.updates++
	if s.order != nil {
		*s.order = append(*s.order, s.priority)
	}
}

func (s *countingSystem) Priority() int { return s.priority }

func (s *countingSystem) Receive(world *World, event any) {
	s.events = append(s.events, event)
}

func TestSystemPriorityOrder(t *testing.T) {
	world := NewWorld()
	var order []int

	world.AddSystem(&countingSystem{priority: 20, order: &order})
	world.AddSystem(&countingSystem{priority: 5, order: &order})
	world.AddSystem(&countingSystem{priority: 10, order: &order})

	world.Update(time.Millisecond)

	want := []int{5, 10, 20}
	for i, p := range want {
		if order[i] != p {
			t.Fatalf("Expected update order %v, got %v", want, order)
		}
	}
}

// Emit is synchronous fire-and-forget: delivered to receivers before it returns
func TestEmitDeliversSynchronously(t *testing.T) {
	world := NewWorld()
	sys := &countingSystem{priority: 1}
	world.AddSystem(sys)

	type testEvent struct{ N int }
	world.Emit(testEvent{N: 9})

	if len(sys.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(sys.events))
	}
	if sys.events[0].(testEvent).N != 9 {
		t.Error("Event payload lost in delivery")
	}
}
