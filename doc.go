// Package keel is the inversion-of-control runtime of the IM platform.
//
// Components are described by explicit descriptors: a name, a type, a scope,
// a constructor or factory method with its dependencies, optional field
// injection points and lifecycle hooks. The container builds singletons at
// most once even under concurrent lookups, resolves field-injection cycles
// between singletons through early references, lets post-processors replace
// instances around initialisation, and destroys every cached singleton,
// dependents first, on Close.
//
//	c := keel.NewContainer()
//	_ = c.Register(keel.Component[*Store]("store", NewStore))
//	_ = c.Register(keel.Component[*Gateway]("gateway", NewGateway,
//		keel.WithParams(keel.ByName("store"))))
//
//	app, err := keel.Start(ctx, c, keel.WithShutdownSignals())
//	if err != nil {
//		return err
//	}
//	defer app.Close()
package keel
