//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/aerosense/internal/bootstrap"
	"github.com/yanqian/aerosense/internal/domain/auth"
	"github.com/yanqian/aerosense/internal/domain/ecoaction"
	"github.com/yanqian/aerosense/internal/domain/environment"
	"github.com/yanqian/aerosense/internal/domain/healthrisk"
	"github.com/yanqian/aerosense/internal/domain/preferences"
	"github.com/yanqian/aerosense/internal/domain/report"
	"github.com/yanqian/aerosense/internal/domain/simulation"
	"github.com/yanqian/aerosense/internal/infra/config"
	httpiface "github.com/yanqian/aerosense/internal/interface/http"
	"github.com/yanqian/aerosense/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideEnvironmentConfig,
		providePostgresPool,
		provideValkeyClient,
		provideUserRepository,
		provideUserDirectory,
		provideSimulationRepository,
		providePreferenceStore,
		provideSettingsRepository,
		provideFavoriteRepository,
		provideEcoRepository,
		provideReportRepository,
		provideLiveClient,
		provideLiveCache,
		provideLeaderboard,
		provideAlertPublisher,
		provideObjectStorage,
		provideJobQueue,
		provideReportQueue,
		provideAnnualSource,
		auth.NewService,
		environment.NewService,
		healthrisk.NewService,
		simulation.NewService,
		preferences.NewService,
		ecoaction.NewService,
		report.NewService,
		wire.Bind(new(httpiface.ReportService), new(*report.Service)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
