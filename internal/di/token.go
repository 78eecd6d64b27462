package di

// Token names a service of type T.
type Token[T any] struct {
	name string
}

// NewToken creates a token. Public tokens use "context.Name", private ones "context:name".
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registry key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazily built service under t.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(t.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves t with its static type.
func GetToken[T any](sr ServiceRegistry, t Token[T]) T {
	return sr.Get(t.name).(T)
}
