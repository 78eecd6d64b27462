// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/s3archive"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
	"github.com/fd1az/arbitrage-evaluator/internal/wsconn"
)

// Public service tokens - exposed to other modules
var (
	Pipeline = di.NewToken[*app.Pipeline]("arbitrage.Pipeline")
	Advisory = di.NewToken[*app.AdvisoryAdapter]("arbitrage.Advisory")
	Poller   = di.NewToken[*app.Poller]("arbitrage.Poller")
	LiveHub  = di.NewToken[*wsconn.Hub]("arbitrage.LiveHub")
)

// Private dependency tokens - internal to arbitrage module. Archive resolves
// to nil when archiving is disabled.
var (
	Evaluator = di.NewToken[*app.Evaluator]("arbitrage:evaluator")
	Reporters = di.NewToken[[]app.Reporter]("arbitrage:reporters")
	Archive   = di.NewToken[*s3archive.Archive]("arbitrage:archive")
)

func GetPipeline(c di.ServiceRegistry) *app.Pipeline {
	return di.GetToken(c, Pipeline)
}

func GetAdvisory(c di.ServiceRegistry) *app.AdvisoryAdapter {
	return di.GetToken(c, Advisory)
}

func GetPoller(c di.ServiceRegistry) *app.Poller {
	return di.GetToken(c, Poller)
}

func GetLiveHub(c di.ServiceRegistry) *wsconn.Hub {
	return di.GetToken(c, LiveHub)
}

func GetEvaluator(c di.ServiceRegistry) *app.Evaluator {
	return di.GetToken(c, Evaluator)
}

func GetReporters(c di.ServiceRegistry) []app.Reporter {
	return di.GetToken(c, Reporters)
}

func GetArchive(c di.ServiceRegistry) *s3archive.Archive {
	return di.GetToken(c, Archive)
}
