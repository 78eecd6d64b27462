package di

import (
	"sync"
	"sync/atomic"
	"testing"
)

type widget struct{ id int }

func TestRegisterToken_BuildsOnce(t *testing.T) {
	c := NewContainer()
	tok := NewToken[*widget]("test.Widget")

	var builds atomic.Int32
	RegisterToken(c, tok, func(ServiceRegistry) *widget {
		return &widget{id: int(builds.Add(1))}
	})

	var wg sync.WaitGroup
	results := make([]*widget, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GetToken(c, tok)
		}(i)
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Fatalf("factory ran %d times, want 1", builds.Load())
	}
	for _, w := range results {
		if w != results[0] {
			t.Fatal("expected the same instance from every Get")
		}
	}
}

func TestFactoryResolvesDependencies(t *testing.T) {
	c := NewContainer()
	c.Register("config", 42)

	tok := NewToken[int]("test.Derived")
	RegisterToken(c, tok, func(sr ServiceRegistry) int {
		return sr.Get("config").(int) * 2
	})

	if got := GetToken(c, tok); got != 84 {
		t.Errorf("got %d, want 84", got)
	}
}

func TestGet_UnknownPanics(t *testing.T) {
	c := NewContainer()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown service")
		}
	}()
	c.Get("missing")
}
