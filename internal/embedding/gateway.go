package embedding

import (
	"context"

	"go.uber.org/zap"
)

// Gateway wraps an Embedder with the soft-failure contract the rest of the
// engine relies on: any provider failure yields nil, never an error. Callers
// treat nil as "skip this write or query". There is no retry at this layer.
type Gateway struct {
	embedder Embedder
	logger   *zap.Logger
}

// NewGateway wraps embedder. A nil embedder yields a gateway that always
// returns nil vectors (unconfigured provider).
func NewGateway(embedder Embedder, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{embedder: embedder, logger: logger}
}

// Configured reports whether an embedder is present.
func (g *Gateway) Configured() bool {
	return g.embedder != nil
}

// Dimensions returns the embedding dimension, or 0 when unconfigured.
func (g *Gateway) Dimensions() int {
	if g.embedder == nil {
		return 0
	}
	return g.embedder.Dimensions()
}

// Embed returns the embedding for text, or nil on any provider failure or
// when text is empty. A vector of unexpected length is also discarded.
func (g *Gateway) Embed(ctx context.Context, text string) []float32 {
	if g.embedder == nil || text == "" {
		return nil
	}
	emb, err := g.embedder.Embed(ctx, text)
	if err != nil {
		g.logger.Warn("embedding failed", zap.Error(err))
		return nil
	}
	if len(emb) != g.embedder.Dimensions() {
		g.logger.Warn("embedding has unexpected length",
			zap.Int("got", len(emb)),
			zap.Int("want", g.embedder.Dimensions()))
		return nil
	}
	return emb
}

// Close releases the underlying embedder.
func (g *Gateway) Close() error {
	if g.embedder == nil {
		return nil
	}
	return g.embedder.Close()
}
