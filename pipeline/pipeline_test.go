package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/openlanka/adkit/core"
)

type stubNode struct {
	name string
	kind Kind
	fn   func([]*core.Item) ([]*core.Item, error)
}

func (n *stubNode) Name() string { return n.name }
func (n *stubNode) Kind() Kind   { return n.kind }

func (n *stubNode) Process(_ context.Context, _ *core.RankContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipelineRunChainsNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "gen", kind: KindRecall, fn: func(_ []*core.Item) ([]*core.Item, error) {
			return []*core.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		}},
		&stubNode{name: "cut", kind: KindReRank, fn: func(items []*core.Item) ([]*core.Item, error) {
			return items[:2], nil
		}},
	}}

	items, err := p.Run(context.Background(), &core.RankContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "a" {
		t.Errorf("items = %+v", items)
	}
}

func TestPipelineRunStopsOnError(t *testing.T) {
	wantErr := errors.New("node down")
	called := false

	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "bad", kind: KindRecall, fn: func(_ []*core.Item) ([]*core.Item, error) {
			return nil, wantErr
		}},
		&stubNode{name: "after", kind: KindRank, fn: func(items []*core.Item) ([]*core.Item, error) {
			called = true
			return items, nil
		}},
	}}

	if _, err := p.Run(context.Background(), &core.RankContext{}, nil); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if called {
		t.Error("node after failure was executed")
	}
}
