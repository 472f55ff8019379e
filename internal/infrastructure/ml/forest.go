package ml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/port"
)

const leaf = -1

// artifact is the JSON layout exported by the training pipeline. Each tree
// uses the parallel-array node layout of scikit-learn's tree_ attribute.
type artifact struct {
	Name     string         `json:"name"`
	Features []string       `json:"features"`
	Trees    []treeArtifact `json:"trees"`
}

type treeArtifact struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	// prob holds the positive-class proportion of each leaf node.
	prob []float64
}

// Forest is an immutable tree-ensemble classifier. It is safe for concurrent use.
type Forest struct {
	name  string
	trees []tree
}

// Parser decodes forest artifacts. It implements port.ModelParser.
type Parser struct{}

// Parse decodes and validates a forest artifact.
func (Parser) Parse(payload []byte) (port.LoadedModel, error) {
	return Parse(payload)
}

// Parse decodes and validates a forest artifact.
func Parse(payload []byte) (*Forest, error) {
	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("failed to decode forest artifact: %w", err)
	}

	if !slices.Equal(a.Features, model.FeatureNames()) {
		return nil, fmt.Errorf("artifact features %v do not match schema order %v", a.Features, model.FeatureNames())
	}
	if len(a.Trees) == 0 {
		return nil, errors.New("artifact contains no trees")
	}

	f := &Forest{name: a.Name, trees: make([]tree, len(a.Trees))}
	for i, ta := range a.Trees {
		t, err := buildTree(ta)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		f.trees[i] = t
	}

	return f, nil
}

// LoadFile reads and parses a forest artifact from disk.
func LoadFile(path string) (*Forest, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return Parse(payload)
}

func buildTree(ta treeArtifact) (tree, error) {
	n := len(ta.ChildrenLeft)
	if n == 0 {
		return tree{}, errors.New("tree has no nodes")
	}
	if len(ta.ChildrenRight) != n || len(ta.Feature) != n || len(ta.Threshold) != n || len(ta.Value) != n {
		return tree{}, fmt.Errorf("node arrays have inconsistent lengths (%d, %d, %d, %d, %d)",
			n, len(ta.ChildrenRight), len(ta.Feature), len(ta.Threshold), len(ta.Value))
	}

	t := tree{
		left:      ta.ChildrenLeft,
		right:     ta.ChildrenRight,
		feature:   ta.Feature,
		threshold: ta.Threshold,
		prob:      make([]float64, n),
	}

	for i := 0; i < n; i++ {
		l, r := t.left[i], t.right[i]
		if l == leaf || r == leaf {
			if l != r {
				return tree{}, fmt.Errorf("node %d has exactly one child", i)
			}
			p, err := leafProbability(ta.Value[i])
			if err != nil {
				return tree{}, fmt.Errorf("node %d: %w", i, err)
			}
			t.prob[i] = p
			continue
		}

		// Children must point forward so every walk terminates.
		if l <= i || l >= n || r <= i || r >= n {
			return tree{}, fmt.Errorf("node %d has invalid children (%d, %d)", i, l, r)
		}
		if t.feature[i] < 0 || t.feature[i] >= model.FeatureCount {
			return tree{}, fmt.Errorf("node %d splits on unknown feature %d", i, t.feature[i])
		}
		if math.IsNaN(t.threshold[i]) || math.IsInf(t.threshold[i], 0) {
			return tree{}, fmt.Errorf("node %d has non-finite threshold", i)
		}
	}

	return t, nil
}

func leafProbability(counts []float64) (float64, error) {
	if len(counts) != 2 {
		return 0, fmt.Errorf("leaf value must hold 2 class weights, got %d", len(counts))
	}
	neg, pos := counts[0], counts[1]
	if neg < 0 || pos < 0 || math.IsNaN(neg) || math.IsNaN(pos) || neg+pos <= 0 || math.IsInf(neg+pos, 0) {
		return 0, fmt.Errorf("leaf class weights %v are invalid", counts)
	}
	return pos / (neg + pos), nil
}

// Score returns the mean positive-class proportion of the leaves reached by record.
func (f *Forest) Score(_ context.Context, record model.FeatureRecord) (float64, error) {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(record)
	}
	return sum / float64(len(f.trees)), nil
}

func (t tree) predict(record model.FeatureRecord) float64 {
	node := 0
	for t.left[node] != leaf {
		if record.Value(t.feature[node]) <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.prob[node]
}

// Name returns the artifact name.
func (f *Forest) Name() string {
	return f.name
}

// Size returns the number of trees.
func (f *Forest) Size() int {
	return len(f.trees)
}
