package model

import (
	"errors"
	"fmt"

	"github.com/yusufkecer/diabetes-prediction/internal/domain"
)

type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel float64 `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

func (dt *DecisionTree) Predict(rows [][]float64) ([]float64, error) {
	labels := make([]float64, 0, len(rows))
	for _, row := range rows {
		label, err := dt.predictRow(row)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

func (dt *DecisionTree) predictRow(features []float64) (float64, error) {
	if len(dt.Nodes) == 0 {
		return 0, errors.New("decision tree has no nodes")
	}
	if err := checkRow(features); err != nil {
		return 0, err
	}
	idx := 0
	// a valid tree reaches a leaf in at most len(Nodes) steps
	for steps := 0; steps <= len(dt.Nodes); steps++ {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, errors.New("decision tree contains a cycle")
}

// validate checks indices once at load so Predict can index without
// bounds surprises.
func (dt *DecisionTree) validate() error {
	if len(dt.Nodes) == 0 {
		return errors.New("decision tree has no nodes")
	}
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(domain.FeatureOrder) {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild < 0 || node.LeftChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: left child %d out of range", i, node.LeftChild)
		}
		if node.RightChild < 0 || node.RightChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: right child %d out of range", i, node.RightChild)
		}
	}
	return nil
}
