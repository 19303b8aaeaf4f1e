package di

// ComponentInfo describes a registered component.
type ComponentInfo struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Scope        string   `json:"scope"`
	Lazy         bool     `json:"lazy"`
	Cached       bool     `json:"cached"`
	Dependencies []string `json:"dependencies,omitempty"`
	Hints        []string `json:"hints,omitempty"`
}

// Inspect returns information about a registered component without building it.
func (c *Container) Inspect(name string) (ComponentInfo, error) {
	d, err := c.registry.lookup(name)
	if err != nil {
		return ComponentInfo{}, err
	}

	_, cached := c.singletons.Load(name)

	return ComponentInfo{
		Name:         d.Name,
		Type:         d.Type.String(),
		Scope:        d.Scope.String(),
		Lazy:         c.cfg.Container.IsLazy(name, d.Lazy),
		Cached:       cached,
		Dependencies: c.dependenciesOf(d),
		Hints:        d.Hints,
	}, nil
}

// Components inspects every registered component in registration order.
func (c *Container) Components() []ComponentInfo {
	names := c.registry.names()
	out := make([]ComponentInfo, 0, len(names))
	for _, name := range names {
		if info, err := c.Inspect(name); err == nil {
			out = append(out, info)
		}
	}
	return out
}
