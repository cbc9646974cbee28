package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/foodshare/feedrec/core"
)

// appendNode 往链路里追加一个固定 ID 的条目。
type appendNode struct {
	id  int64
	err error
}

func (n *appendNode) Name() string { return "test.append" }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(&core.ContentItem{ID: n.id})), nil
}

func TestPipeline_RunChainsNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{id: 1}, &appendNode{id: 2}}}

	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("Run() produced %v, want items [1 2] in order", items)
	}
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	wantErr := errors.New("node failed")
	p := &Pipeline{Nodes: []Node{&appendNode{id: 1}, &appendNode{err: wantErr}, &appendNode{id: 3}}}

	_, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
pipeline:
  name: "demo"
  nodes:
    - type: "recall.popular"
      config:
        topk: 5
    - type: "rerank.topn"
      config:
        n: 3
`)
	cfg, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if cfg.Pipeline.Name != "demo" {
		t.Errorf("name = %q, want %q", cfg.Pipeline.Name, "demo")
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[0].Type != "recall.popular" {
		t.Errorf("node type = %q, want %q", cfg.Pipeline.Nodes[0].Type, "recall.popular")
	}
}

func TestParseYAML_Invalid(t *testing.T) {
	if _, err := ParseYAML([]byte("pipeline: [")); err == nil {
		t.Errorf("ParseYAML() expected error for invalid yaml")
	}
}

func TestNodeFactory_UnknownType(t *testing.T) {
	f := NewNodeFactory()
	if _, err := f.Build("recall.magic", nil); err == nil {
		t.Errorf("Build() expected error for unregistered type")
	}
}
