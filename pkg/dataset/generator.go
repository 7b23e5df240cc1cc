package dataset

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"gradebench/internal/domain"
)

// UniformGenerator fills a dataset with scores drawn uniformly from
// [0, maxScore].
type UniformGenerator struct {
	logger   *zap.Logger
	maxScore int
	seed     int64
}

// NewUniformGenerator returns a generator. A zero seed means the current time.
func NewUniformGenerator(logger *zap.Logger, maxScore int, seed int64) *UniformGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &UniformGenerator{logger: logger, maxScore: maxScore, seed: seed}
}

func (g *UniformGenerator) Generate(n int) domain.Dataset {
	rng := rand.New(rand.NewSource(g.seed))
	data := make(domain.Dataset, n)
	for i := range data {
		data[i] = int32(rng.Intn(g.maxScore + 1))
	}
	g.logger.Debug("Dataset generated",
		zap.Int("scores", n),
		zap.Int("max_score", g.maxScore),
		zap.Int64("seed", g.seed))
	return data
}

// Fixed hands out a prepared dataset. It ignores n.
type Fixed domain.Dataset

func (f Fixed) Generate(int) domain.Dataset {
	return domain.Dataset(f)
}
