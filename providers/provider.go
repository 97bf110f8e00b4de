package providers

import "context"

// Provider ist das Interface, das jede Quelle (Modell, simulierte Scanner, Europe PMC) implementieren muss.
// T ist der Datensatztyp der Domain (models.Hardware oder models.Paper).
type Provider[T any] interface {
	// Discover sucht für die Domain-Query nach Kandidaten. Die Ergebnisse sind Teil-Datensätze:
	// ID und lastUpdated werden erst von der Pipeline gesetzt.
	Discover(ctx context.Context, query string) ([]T, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "news").
	Name() string
}

// Func adaptiert eine einfache Funktion an das Provider-Interface.
type Func[T any] struct {
	ProviderName string
	Fn           func(ctx context.Context, query string) ([]T, error)
}

// Discover ruft Fn auf.
func (f Func[T]) Discover(ctx context.Context, query string) ([]T, error) {
	return f.Fn(ctx, query)
}

// Name gibt ProviderName zurück.
func (f Func[T]) Name() string {
	return f.ProviderName
}
