// Package toolbox exposes tool backends to snippets.
//
// A [Catalog] aggregates tool [Backend]s, indexes their tools for search,
// and serves their documentation. Each submission gets its own [Session],
// bound under the dependency name "tools", which records every call and
// enforces a per-submission call budget:
//
//	cat := toolbox.NewCatalog(toolbox.CatalogConfig{})
//	math := toolbox.NewLocalBackend("math")
//	math.Register(toolbox.ToolDef{Name: "add", Handler: add})
//	_ = cat.Register(math)
//	_ = cat.Sync(ctx)
//
//	res, _ := exec.Execute(ctx, `tools.call("math:add", {a: 1, b: 2})`,
//		cat.NewSession(ctx, 10).Dependency())
//
// Tool IDs have the form "namespace:name"; the namespace is the backend
// name.
package toolbox
