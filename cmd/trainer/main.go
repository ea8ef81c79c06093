package main

import (
	"flag"
	"log"
	"time"

	"github.com/patrikeh/go-deep/training"

	"github.com/dropfour/backend/internal/agent"
	"github.com/dropfour/backend/internal/arena"
	"github.com/dropfour/backend/internal/engine"
	"github.com/dropfour/backend/internal/game"
)

// selfPlayExamples plays random-vs-random games and labels every position
// with the final result from the side to move's perspective: 1 for a win,
// -1 for a loss, 0 for a draw.
func selfPlayExamples(games int, seed int64) (training.Examples, error) {
	red := agent.NewRandom(seed)
	yellow := agent.NewRandom(seed + 1)

	var examples training.Examples
	for i := 0; i < games; i++ {
		rec, err := arena.Play(red, yellow)
		if err != nil {
			return nil, err
		}

		s := game.NewState()
		for _, col := range rec.Moves {
			mover := s.Turn()
			target := 0.0
			if winner := rec.Outcome.Winner(); winner != game.NoDisc {
				if winner == mover {
					target = 1.0
				} else {
					target = -1.0
				}
			}
			examples = append(examples, training.Example{
				Input:    engine.Features(s, mover),
				Response: []float64{target},
			})

			s, err = s.Apply(col)
			if err != nil {
				return nil, err
			}
		}
	}
	return examples, nil
}

func main() {
	games := flag.Int("games", 2000, "self-play games to generate training data from")
	iterations := flag.Int("iterations", 50, "training iterations over the data set")
	lr := flag.Float64("lr", 0.005, "SGD learning rate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "self-play seed")
	in := flag.String("in", "", "weights file to resume from")
	out := flag.String("out", "weights.json", "where to write the trained weights")
	evalGames := flag.Int("eval-games", 50, "games against the random baseline after training")
	flag.Parse()

	var net *engine.Net
	if *in != "" {
		loaded, err := engine.LoadNet(*in)
		if err != nil {
			log.Fatalf("resume: %v", err)
		}
		net = loaded
		log.Printf("[TRAIN] resumed from %s", *in)
	} else {
		net = engine.NewNet(engine.DefaultNetConfig())
	}

	log.Printf("[TRAIN] generating data from %d self-play games (seed %d)", *games, *seed)
	examples, err := selfPlayExamples(*games, *seed)
	if err != nil {
		log.Fatalf("self-play: %v", err)
	}
	log.Printf("[TRAIN] %d positions collected", len(examples))

	trainer := training.NewTrainer(training.NewSGD(*lr, 0.5, 0.0, false), 1)
	start := time.Now()
	trainer.Train(net.Raw(), examples, nil, *iterations)
	log.Printf("[TRAIN] %d iterations in %s", *iterations, time.Since(start).Round(time.Second))

	if err := net.Save(*out); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("[TRAIN] weights written to %s", *out)

	if *evalGames > 0 {
		player := agent.NewMinimax(2, net.Eval, net.Name())
		baseline := agent.NewRandom(*seed + 7)
		result, err := arena.Series(player, baseline, *evalGames)
		if err != nil {
			log.Fatalf("evaluation: %v", err)
		}
		log.Printf("[TRAIN] vs random baseline: %s", result)
	}
}
