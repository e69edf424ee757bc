package domain

// Answer is a generated response to a question, together with the
// chunks that grounded it.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the chunks supplied as context, best match first.
	Sources []SearchResult

	// Model is the name of the model that produced the answer.
	Model string
}
