// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"startupteam_backend/internal/app"
	"startupteam_backend/internal/application"
	"startupteam_backend/internal/auth"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/dashboard"
	"startupteam_backend/internal/filestorage"
	"startupteam_backend/internal/jobs"
	"startupteam_backend/internal/middleware"
	"startupteam_backend/internal/notification"
	"startupteam_backend/internal/platform/logger"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/role"
	"startupteam_backend/internal/shared"
	"startupteam_backend/internal/startup"
	"startupteam_backend/internal/user"
)

var platformSet = wire.NewSet(
	logger.New,
	provideDatabase,
	provideSearchClient,
	provideImageStore,
)

var identitySet = wire.NewSet(
	user.NewGORMRepository,
	user.NewService,
	user.NewHandler,
	wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
	wire.Bind(new(middleware.UserLookup), new(*user.ServiceImplementation)),

	auth.NewJWTService,
	wire.Bind(new(shared.TokenService), new(*auth.JWTService)),
	auth.NewGORMBlocklistService,
	wire.Bind(new(auth.TokenBlocklistService), new(*auth.GORMBlocklistService)),
	auth.NewProviders,
	auth.NewLinker,
	wire.Bind(new(auth.IdentityStore), new(user.Repository)),
	auth.NewOAuthService,
	auth.NewHandler,

	profile.NewGORMRepository,
	profile.NewService,
	profile.NewHandler,
	wire.Bind(new(profile.Service), new(*profile.ServiceImplementation)),
)

var notificationSet = wire.NewSet(
	notification.NewGORMRepository,
	notification.NewService,
	wire.Bind(new(notification.Service), new(*notification.ServiceImplementation)),
	notification.NewMessenger,
	notification.NewDispatcher,
	wire.Bind(new(user.CredentialNotifier), new(*notification.Dispatcher)),
	wire.Bind(new(role.MatchNotifier), new(*notification.Dispatcher)),
	wire.Bind(new(application.Notifier), new(*notification.Dispatcher)),
	notification.NewHandler,
)

var marketplaceSet = wire.NewSet(
	startup.NewGORMRepository,
	startup.NewSearchIndex,
	startup.NewService,
	startup.NewHandler,
	wire.Bind(new(startup.Service), new(*startup.ServiceImplementation)),
	wire.Bind(new(startup.OpenRoleLister), new(role.Repository)),
	wire.Bind(new(startup.AppliedRoleLister), new(application.Repository)),

	role.NewGORMRepository,
	role.NewService,
	role.NewHandler,
	wire.Bind(new(role.Service), new(*role.ServiceImplementation)),
	wire.Bind(new(role.StartupResolver), new(*startup.ServiceImplementation)),
	wire.Bind(new(role.MemberDirectory), new(profile.Repository)),
	wire.Bind(new(role.PhoneBook), new(user.Repository)),

	application.NewGORMRepository,
	application.NewService,
	application.NewHandler,
	wire.Bind(new(application.Service), new(*application.ServiceImplementation)),
	wire.Bind(new(application.StartupLookup), new(startup.Repository)),
	wire.Bind(new(application.RoleLookup), new(role.Repository)),
	wire.Bind(new(application.UserLookup), new(user.Repository)),

	dashboard.NewService,
	dashboard.NewHandler,
	wire.Bind(new(dashboard.StartupFinder), new(startup.Repository)),
	wire.Bind(new(dashboard.RoleCounter), new(role.Repository)),
	wire.Bind(new(dashboard.ApplicationStats), new(application.Repository)),
	wire.Bind(new(dashboard.UnreadCounter), new(notification.Service)),
	wire.Bind(new(dashboard.ProfileFinder), new(profile.Repository)),
)

var uploadSet = wire.NewSet(
	filestorage.NewUploadService,
	provideUploadHandler,
	wire.Bind(new(filestorage.AvatarSetter), new(*user.ServiceImplementation)),
	wire.Bind(new(filestorage.LogoSetter), new(*startup.ServiceImplementation)),
)

var jobSet = wire.NewSet(
	jobs.NewCredentialPurgeJob,
	wire.Bind(new(jobs.CredentialPurger), new(user.Repository)),
	wire.Bind(new(jobs.TokenPurger), new(*auth.GORMBlocklistService)),
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		identitySet,
		notificationSet,
		marketplaceSet,
		uploadSet,
		jobSet,
		wire.Struct(new(app.Handlers), "*"),
		app.NewServer,
	)
	return nil, nil, nil
}
