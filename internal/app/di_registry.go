package app

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"

	authHTTP "github.com/openfoundry/releases/internal/auth/http"
	committeeRepository "github.com/openfoundry/releases/internal/committee/repository"
	committeeUsecase "github.com/openfoundry/releases/internal/committee/usecase"
	"github.com/openfoundry/releases/internal/http"
	keysHTTP "github.com/openfoundry/releases/internal/keys/http"
	keysRepository "github.com/openfoundry/releases/internal/keys/repository"
	keysService "github.com/openfoundry/releases/internal/keys/service"
	"github.com/openfoundry/releases/internal/metrics"
	"github.com/openfoundry/releases/internal/storage"
)

// CommitteeRepository returns the committee repository based on database
// driver.
func (c *Container) CommitteeRepository() (committeeUsecase.CommitteeRepository, error) {
	var err error
	c.committeeRepositoryInit.Do(func() {
		c.committeeRepository, err = c.initCommitteeRepository()
		if err != nil {
			c.initErrors["committeeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["committeeRepository"]; exists {
		return nil, storedErr
	}
	return c.committeeRepository, nil
}

// CommitteeUseCase returns the committee use case.
func (c *Container) CommitteeUseCase() (committeeUsecase.CommitteeUseCase, error) {
	var err error
	c.committeeUseCaseInit.Do(func() {
		var repo committeeUsecase.CommitteeRepository
		repo, err = c.CommitteeRepository()
		if err != nil {
			c.initErrors["committeeUseCase"] = err
			return
		}
		c.committeeUseCase = committeeUsecase.NewCommitteeUseCase(repo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["committeeUseCase"]; exists {
		return nil, storedErr
	}
	return c.committeeUseCase, nil
}

// KeyRepository returns the key repository based on database driver.
func (c *Container) KeyRepository() (storage.KeyRepository, error) {
	var err error
	c.keyRepositoryInit.Do(func() {
		c.keyRepository, err = c.initKeyRepository()
		if err != nil {
			c.initErrors["keyRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRepository"]; exists {
		return nil, storedErr
	}
	return c.keyRepository, nil
}

// KeyParser returns the OpenPGP key parser.
func (c *Container) KeyParser() keysService.KeyParser {
	c.keyParserInit.Do(func() {
		c.keyParser = keysService.NewKeyParser()
	})
	return c.keyParser
}

// KeysFileStore returns the blob-backed store for generated KEYS artifacts.
func (c *Container) KeysFileStore(ctx context.Context) (keysService.KeysFileStore, error) {
	var err error
	c.keysFileStoreInit.Do(func() {
		c.keysFileBucket, err = blob.OpenBucket(ctx, c.config.KeysFileBucketURL)
		if err != nil {
			c.initErrors["keysFileStore"] = fmt.Errorf(
				"failed to open keys file bucket %q: %w", c.config.KeysFileBucketURL, err)
			return
		}
		c.keysFileStore = keysService.NewBlobKeysFileStore(c.keysFileBucket)
	})
	if err != nil {
		return nil, c.initErrors["keysFileStore"]
	}
	if storedErr, exists := c.initErrors["keysFileStore"]; exists {
		return nil, storedErr
	}
	return c.keysFileStore, nil
}

// StorageService returns the mediated storage service.
func (c *Container) StorageService(ctx context.Context) (*storage.Service, error) {
	var err error
	c.storageServiceInit.Do(func() {
		c.storageService, err = c.initStorageService(ctx)
		if err != nil {
			c.initErrors["storageService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storageService"]; exists {
		return nil, storedErr
	}
	return c.storageService, nil
}

// KeyHandler returns the key HTTP handler.
func (c *Container) KeyHandler(ctx context.Context) (*keysHTTP.KeyHandler, error) {
	var err error
	c.keyHandlerInit.Do(func() {
		var svc *storage.Service
		svc, err = c.StorageService(ctx)
		if err != nil {
			c.initErrors["keyHandler"] = err
			return
		}
		c.keyHandler = keysHTTP.NewKeyHandler(svc, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyHandler"]; exists {
		return nil, storedErr
	}
	return c.keyHandler, nil
}

// initCommitteeRepository creates the committee repository for the
// configured driver.
func (c *Container) initCommitteeRepository() (committeeUsecase.CommitteeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for committee repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return committeeRepository.NewMySQLCommitteeRepository(db), nil
	case "postgres":
		return committeeRepository.NewPostgreSQLCommitteeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initKeyRepository creates the key repository for the configured driver.
func (c *Container) initKeyRepository() (storage.KeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return keysRepository.NewMySQLKeyRepository(db), nil
	case "postgres":
		return keysRepository.NewPostgreSQLKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStorageService creates the storage service with all its dependencies.
func (c *Container) initStorageService(ctx context.Context) (*storage.Service, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for storage service: %w", err)
	}

	keyRepo, err := c.KeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get key repository for storage service: %w", err)
	}

	membership, err := c.CommitteeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get committee repository for storage service: %w", err)
	}

	keysFiles, err := c.KeysFileStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get keys file store for storage service: %w", err)
	}

	logger := c.Logger()

	return storage.NewService(
		db,
		keyRepo,
		membership,
		c.KeyParser(),
		keysFiles,
		storage.NewSlogRecorder(logger),
		logger,
	), nil
}

// routerConfig assembles every handler and middleware the router mounts.
func (c *Container) routerConfig() (http.RouterConfig, error) {
	logger := c.Logger()

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return http.RouterConfig{}, fmt.Errorf("failed to get token use case for router: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return http.RouterConfig{}, fmt.Errorf("failed to get token handler for router: %w", err)
	}

	keyHandler, err := c.KeyHandler(context.Background())
	if err != nil {
		return http.RouterConfig{}, fmt.Errorf("failed to get key handler for router: %w", err)
	}

	cfg := http.RouterConfig{
		TokenHandler:             tokenHandler,
		KeyHandler:               keyHandler,
		AuthenticationMiddleware: authHTTP.AuthenticationMiddleware(tokenUseCase, logger),
		AdminMiddleware:          authHTTP.RequireAdminMiddleware(logger),
		CORSMiddleware:           http.CORSMiddleware(c.config.CORSEnabled, c.config.CORSAllowOrigins, logger),
	}

	if c.config.RateLimitTokenEnabled {
		cfg.ExchangeRateLimitMiddleware = authHTTP.ExchangeRateLimitMiddleware(
			c.config.RateLimitTokenRequestsPerSec,
			c.config.RateLimitTokenBurst,
			logger,
		)
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return http.RouterConfig{}, fmt.Errorf("failed to get metrics provider for router: %w", err)
		}
		if provider != nil {
			cfg.MetricsMiddleware = metrics.HTTPMetricsMiddleware(
				provider.MeterProvider(), c.config.MetricsNamespace)
		}
	}

	return cfg, nil
}
