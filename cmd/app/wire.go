//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/bazi/internal/bootstrap"
	"github.com/yanqian/bazi/internal/domain/bazi"
	"github.com/yanqian/bazi/internal/infra/config"
	httpiface "github.com/yanqian/bazi/internal/interface/http"
	"github.com/yanqian/bazi/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideBaziConfig,
		provideResolutionStats,
		provideCalendarLookup,
		provideProfileCache,
		provideTokenVerifier,
		bazi.NewService,
		provideHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
