package roles

import "context"

// Source loads the role names assigned to a user.
type Source interface {
	NamesForUser(ctx context.Context, userID uint) ([]string, error)
}

// Cache memoizes one subject's role set for the duration of a single
// authenticated request. It is owned by that request's context and never
// shared, so repeated role-gated checks in one request hit the store once.
// Role edits made elsewhere become visible on the subject's next request.
type Cache struct {
	source Source
	userID uint

	loaded bool
	names  []string
	set    map[string]struct{}
}

// NewCache builds a cache for the given subject.
func NewCache(source Source, userID uint) *Cache {
	return &Cache{source: source, userID: userID}
}

// Roles returns the subject's role names, querying the store at most once.
func (c *Cache) Roles(ctx context.Context) ([]string, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return append([]string(nil), c.names...), nil
}

// HasAny reports whether the subject holds at least one of the required
// roles ("any of" semantics).
func (c *Cache) HasAny(ctx context.Context, required ...string) (bool, error) {
	if err := c.load(ctx); err != nil {
		return false, err
	}
	for _, name := range required {
		if _, ok := c.set[name]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (c *Cache) load(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	names, err := c.source.NamesForUser(ctx, c.userID)
	if err != nil {
		return err
	}
	c.names = names
	c.set = make(map[string]struct{}, len(names))
	for _, name := range names {
		c.set[name] = struct{}{}
	}
	c.loaded = true
	return nil
}
