package testutil

// FixedTokenGenerator generates the same binding context token every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// log lines and errors that carry a context token are byte-identical across
// runs.
//
// Unlike binding.FixedGenerator which returns tokens in sequence, this
// generator always returns the same token, so parent and child contexts
// share it.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a new fixed token generator.
//
// If token is empty, Generate() returns "test-context-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-context-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
//
// Implements binding.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
