package embedding

import (
	"context"
	"errors"
	"testing"
)

type failingEmbedder struct {
	dims int
}

func (f *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("provider down")
}

func (f *failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}

func (f *failingEmbedder) Dimensions() int { return f.dims }
func (f *failingEmbedder) Close() error    { return nil }

type wrongLengthEmbedder struct{}

func (w *wrongLengthEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 2}, nil
}

func (w *wrongLengthEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{1, 2}}, nil
}

func (w *wrongLengthEmbedder) Dimensions() int { return 8 }
func (w *wrongLengthEmbedder) Close() error    { return nil }

func TestGatewayEmbed(t *testing.T) {
	g := NewGateway(NewMockEmbedder(16), nil)
	if !g.Configured() {
		t.Fatal("Configured() = false")
	}
	emb := g.Embed(context.Background(), "안녕하세요")
	if len(emb) != 16 {
		t.Errorf("len(emb) = %d, want 16", len(emb))
	}
}

func TestGatewayEmptyText(t *testing.T) {
	g := NewGateway(NewMockEmbedder(16), nil)
	if emb := g.Embed(context.Background(), ""); emb != nil {
		t.Errorf("Embed(\"\") = %v, want nil", emb)
	}
}

func TestGatewayProviderFailure(t *testing.T) {
	g := NewGateway(&failingEmbedder{dims: 16}, nil)
	if emb := g.Embed(context.Background(), "text"); emb != nil {
		t.Errorf("Embed on failure = %v, want nil", emb)
	}
}

func TestGatewayWrongLength(t *testing.T) {
	g := NewGateway(&wrongLengthEmbedder{}, nil)
	if emb := g.Embed(context.Background(), "text"); emb != nil {
		t.Errorf("Embed with wrong length = %v, want nil", emb)
	}
}

func TestGatewayUnconfigured(t *testing.T) {
	g := NewGateway(nil, nil)
	if g.Configured() {
		t.Error("Configured() = true for nil embedder")
	}
	if emb := g.Embed(context.Background(), "text"); emb != nil {
		t.Errorf("Embed unconfigured = %v, want nil", emb)
	}
	if g.Dimensions() != 0 {
		t.Errorf("Dimensions() = %d, want 0", g.Dimensions())
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(32)
	a, err := e.Embed(context.Background(), "같은 텍스트")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.Embed(context.Background(), "같은 텍스트")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("embeddings differ for same text")
		}
	}
	c, _ := e.Embed(context.Background(), "다른 텍스트")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical embeddings")
	}
}
