package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dropfour/backend/internal/agent"
	"github.com/dropfour/backend/internal/arena"
	"github.com/dropfour/backend/internal/engine"
)

// agentSpec syntax:
//
//	random[:seed]
//	first
//	minimax:<depth>[:zero|three|shape]
//	net:<depth>:<weights file>
func buildAgent(spec string) (agent.Agent, error) {
	parts := strings.Split(spec, ":")
	switch parts[0] {
	case "random":
		seed := time.Now().UnixNano()
		if len(parts) > 1 {
			if _, err := fmt.Sscanf(parts[1], "%d", &seed); err != nil {
				return nil, fmt.Errorf("bad seed %q", parts[1])
			}
		}
		return agent.NewRandom(seed), nil

	case "first":
		return agent.FirstMove{}, nil

	case "minimax":
		if len(parts) < 2 {
			return nil, fmt.Errorf("minimax needs a depth, e.g. minimax:4")
		}
		var depth int
		if _, err := fmt.Sscanf(parts[1], "%d", &depth); err != nil {
			return nil, fmt.Errorf("bad depth %q", parts[1])
		}
		eval, label := engine.EvalFunc(engine.ShapeEval), "shape"
		if len(parts) > 2 {
			label = parts[2]
			switch parts[2] {
			case "zero":
				eval = engine.ZeroEval
			case "three":
				eval = engine.OpenThreeEval
			case "shape":
				eval = engine.ShapeEval
			default:
				return nil, fmt.Errorf("unknown eval %q", parts[2])
			}
		}
		return agent.NewMinimax(depth, eval, label), nil

	case "net":
		if len(parts) < 3 {
			return nil, fmt.Errorf("net needs a depth and weights file, e.g. net:2:weights.json")
		}
		var depth int
		if _, err := fmt.Sscanf(parts[1], "%d", &depth); err != nil {
			return nil, fmt.Errorf("bad depth %q", parts[1])
		}
		net, err := engine.LoadNet(parts[2])
		if err != nil {
			return nil, err
		}
		return agent.NewMinimax(depth, net.Eval, net.Name()), nil
	}
	return nil, fmt.Errorf("unknown agent %q", spec)
}

func main() {
	redSpec := flag.String("red", "minimax:4:shape", "red agent spec")
	yellowSpec := flag.String("yellow", "random", "yellow agent spec")
	games := flag.Int("games", 100, "number of games to play")
	flag.Parse()

	red, err := buildAgent(*redSpec)
	if err != nil {
		log.Fatalf("red agent: %v", err)
	}
	yellow, err := buildAgent(*yellowSpec)
	if err != nil {
		log.Fatalf("yellow agent: %v", err)
	}

	log.Printf("[ARENA] %s (red) vs %s (yellow), %d games", red.Name(), yellow.Name(), *games)
	start := time.Now()
	result, err := arena.Series(red, yellow, *games)
	if err != nil {
		log.Fatalf("series aborted: %v", err)
	}

	fmt.Printf("%s (red perspective) in %s\n", result, time.Since(start).Round(time.Millisecond))
	if result.Games > 0 {
		fmt.Printf("red score: %.1f%%\n", 100*(float64(result.Wins)+0.5*float64(result.Draws))/float64(result.Games))
	}
	os.Exit(0)
}
