package engine

import (
	"encoding/json"
	"fmt"
	"os"

	deep "github.com/patrikeh/go-deep"

	"github.com/dropfour/backend/internal/game"
)

// NetConfig describes the evaluation network: its shape and, once trained,
// its weights. Configs round-trip through JSON weight files.
type NetConfig struct {
	Name         string        `json:"name"`
	HiddenLayers []int         `json:"hidden_layers"`
	Weights      [][][]float64 `json:"weights,omitempty"`
}

// netInputs is one input per cell from the maximizer's perspective plus a
// side-to-move flag.
const netInputs = game.Rows*game.Cols + 1

// DefaultNetConfig is the architecture the trainer starts from.
func DefaultNetConfig() NetConfig {
	return NetConfig{
		Name:         "default",
		HiddenLayers: []int{64, 32},
	}
}

// Net is a feed-forward network that scores positions. It implements the
// same EvalFunc contract as the hand-written heuristics, so a trained net
// drops straight into ChooseMove.
type Net struct {
	network *deep.Neural
	config  NetConfig
}

// NewNet builds a network from config, applying stored weights when present.
func NewNet(config NetConfig) *Net {
	layout := append(append([]int{}, config.HiddenLayers...), 1)
	network := deep.NewNeural(&deep.Config{
		Inputs:     netInputs,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.0, 0.1),
		Bias:       true,
	})
	if config.Weights != nil {
		network.ApplyWeights(config.Weights)
	}
	return &Net{network: network, config: config}
}

// LoadNet reads a weight file written by Save.
func LoadNet(path string) (*Net, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load net: %w", err)
	}
	var config NetConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("load net: %w", err)
	}
	return NewNet(config), nil
}

// Save writes the current weights to path as JSON.
func (n *Net) Save(path string) error {
	n.config.Weights = n.network.Dump().Weights
	data, err := json.MarshalIndent(&n.config, "", "  ")
	if err != nil {
		return fmt.Errorf("save net: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Name identifies the loaded config in logs and arena reports.
func (n *Net) Name() string {
	return "net:" + n.config.Name
}

// Raw exposes the underlying network to the trainer.
func (n *Net) Raw() *deep.Neural {
	return n.network
}

/// Eval is the EvalFunc adapter: terminal positions keep the sentinel
// contract, live positions get the network's prediction scaled into the
// heuristic range.
func (n *Net) Eval(s game.State, max game.Disc) int {
	if score, ok := terminalScore(s, max); ok {
		return score
	}
	out := n.network.Predict(Features(s, max))
	return clampHeur(int(out[0] * float64(WinScore-1)))
}

// Features encodes a position for the network: +1 for the maximizer's discs,
// -1 for the opponent's, 0 for empty, and a final flag for side to move.
func Features(s game.State, max game.Disc) []float64 {
	features := make([]float64, netInputs)
	idx := 0
	for r := 0; r < game.Rows; r++ {
		for c := 0; c < game.Cols; c++ {
			switch s.At(r, c) {
			case max:
				features[idx] = 1
			case max.Other():
				features[idx] = -1
			}
			idx++
		}
	}
	if s.Turn() == max {
		features[idx] = 1
	} else {
		features[idx] = -1
	}
	return features
}
