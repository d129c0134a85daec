/*
Package dsl builds net definitions in Go.

It is the programmatic counterpart of the YAML and JSON loaders: agents are
declared by name, ports are wired with a fluent API, and the result is
validated before it is handed out.

Example usage:

	b := dsl.New("annihilation")
	b.Con("root")
	b.Con("a").Aux1("root", 1)
	b.Con("b").Aux1("root", 2)
	b.Redex("a", "b")
	b.Wire("a.2", "b.2")

	def, err := b.Definition()
	// or, as a ports.NetLoader:
	loader, err := b.Build()
*/
package dsl
