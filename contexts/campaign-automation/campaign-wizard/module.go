package campaignwizard

import (
	"log/slog"

	httpadapter "adpilot/contexts/campaign-automation/campaign-wizard/adapters/http"
	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/memory"
	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/meta"
	"adpilot/contexts/campaign-automation/campaign-wizard/application/commands"
	"adpilot/contexts/campaign-automation/campaign-wizard/application/queries"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Store    *memory.Store
	Platform *memory.FakeAdPlatform
}

type Dependencies struct {
	Tasks       ports.TaskRepository
	Credentials ports.CredentialRepository
	Platform    ports.AdPlatform
	Generator   ports.StrategyGenerator
	Scanner     ports.BusinessScanner
	Cipher      ports.TokenCipher
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator

	FallbackLinkURL   string
	HostedPrivacyBase string

	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	startScan := commands.StartScanUseCase{
		Tasks:   deps.Tasks,
		Scanner: deps.Scanner,
		Clock:   deps.Clock,
		IDGen:   deps.IDGenerator,
		Logger:  deps.Logger,
	}
	generateStrategy := commands.GenerateStrategyUseCase{
		Tasks:     deps.Tasks,
		Generator: deps.Generator,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	selectVariant := commands.SelectVariantUseCase{
		Tasks:  deps.Tasks,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	launchCampaign := commands.LaunchCampaignUseCase{
		Tasks:             deps.Tasks,
		Credentials:       deps.Credentials,
		Platform:          deps.Platform,
		Outbox:            deps.Outbox,
		Clock:             deps.Clock,
		IDGen:             deps.IDGenerator,
		FallbackLinkURL:   deps.FallbackLinkURL,
		HostedPrivacyBase: deps.HostedPrivacyBase,
		Logger:            deps.Logger,
	}
	saveCredential := commands.SaveCredentialUseCase{
		Credentials: deps.Credentials,
		Platform:    deps.Platform,
		Cipher:      deps.Cipher,
		Logger:      deps.Logger,
	}

	getTask := queries.GetTaskUseCase{
		Tasks:  deps.Tasks,
		Logger: deps.Logger,
	}
	listTasks := queries.ListTasksUseCase{
		Tasks:  deps.Tasks,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			StartScan:        startScan,
			GenerateStrategy: generateStrategy,
			SelectVariant:    selectVariant,
			LaunchCampaign:   launchCampaign,
			SaveCredential:   saveCredential,
			GetTask:          getTask,
			ListTasks:        listTasks,
			Logger:           deps.Logger,
		},
	}
}

// devCipherKey is a throwaway key for the in-memory wiring only.
const devCipherKey = "6368616e676520746869732070617373"

func NewInMemoryModule(seed []entities.CampaignTask, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	platform := &memory.FakeAdPlatform{}
	cipher, err := meta.NewSecretbox(devCipherKey)
	if err != nil {
		panic(err)
	}
	module := NewModule(Dependencies{
		Tasks:             store,
		Credentials:       store,
		Platform:          platform,
		Generator:         memory.ScriptedGenerator{},
		Scanner:           memory.StaticScanner{},
		Cipher:            cipher,
		Outbox:            store,
		Clock:             store,
		IDGenerator:       store,
		FallbackLinkURL:   "https://adpilot.example.com",
		HostedPrivacyBase: "https://adpilot.example.com",
		Logger:            logger,
	})
	module.Store = store
	module.Platform = platform
	return module
}
