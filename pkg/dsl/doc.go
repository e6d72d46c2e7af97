/*
Package dsl builds expert systems in Go instead of XML or YAML files.

Example usage:

	b := dsl.New("Headache")

	b.Question(1, "Do you have a headache?").
		Yes(2).
		No(3)

	b.Answer(2, "See a doctor.")
	b.Answer(3, "You're healthy.")

	loader, err := b.Build("headache")
	// pass loader to expertsystem.Open(ctx, "headache", expertsystem.WithLoader(loader))

Questions keep declaration order, so the first question declared is the root.
*/
package dsl
