package carrier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry manages the set of registered carriers.
type Registry struct {
	carriers map[string]Carrier
	mu       sync.RWMutex
}

// NewRegistry creates a new empty carrier registry.
func NewRegistry() *Registry {
	return &Registry{
		carriers: make(map[string]Carrier),
	}
}

// Register adds a carrier to the registry, replacing any carrier already
// registered under the same name.
func (r *Registry) Register(c Carrier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carriers[c.Name()] = c
}

// Get returns a carrier by name.
func (r *Registry) Get(name string) (Carrier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carriers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCarrierNotFound, name)
	}
	return c, nil
}

// All returns all registered carriers.
func (r *Registry) All() []Carrier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	carriers := make([]Carrier, 0, len(r.carriers))
	for _, c := range r.carriers {
		carriers = append(carriers, c)
	}
	return carriers
}

// Names returns the names of all registered carriers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.carriers))
	for name := range r.carriers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered carriers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carriers)
}

// GetRates fetches quotes from a single named carrier.
func (r *Registry) GetRates(ctx context.Context, name string, req *RateRequest) (*RateResponse, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return c.GetRates(ctx, req)
}

// GetAllRates fans the request out to every registered carrier in parallel
// and merges the quotes into one list sorted by total charge, cheapest
// first. Individual carrier failures are tolerated; the call fails only
// when every carrier fails.
func (r *Registry) GetAllRates(ctx context.Context, req *RateRequest) ([]RateQuote, error) {
	carriers := r.All()
	if len(carriers) == 0 {
		return nil, fmt.Errorf("%w: no carriers registered", ErrCarrierNotFound)
	}

	var (
		quotes []RateQuote
		errs   []error
		mu     sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)

	for _, c := range carriers {
		c := c // capture loop variable
		g.Go(func() error {
			resp, err := c.GetRates(ctx, req)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
				return nil // Don't fail the group, continue with other carriers
			}
			quotes = append(quotes, resp.Quotes...)
			return nil
		})
	}

	g.Wait()

	if len(errs) == len(carriers) {
		return nil, errors.Join(errs...)
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].TotalCharge < quotes[j].TotalCharge
	})
	return quotes, nil
}

// HealthCheck probes every registered carrier in parallel and reports
// per-carrier health keyed by carrier name.
func (r *Registry) HealthCheck(ctx context.Context) map[string]bool {
	carriers := r.All()

	results := make(map[string]bool, len(carriers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	for _, c := range carriers {
		c := c // capture loop variable
		g.Go(func() error {
			healthy := c.HealthCheck(ctx)

			mu.Lock()
			results[c.Name()] = healthy
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return results
}
