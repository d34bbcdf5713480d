package app

import (
	"fmt"

	authHTTP "github.com/openfoundry/releases/internal/auth/http"
	authRepository "github.com/openfoundry/releases/internal/auth/repository"
	authService "github.com/openfoundry/releases/internal/auth/service"
	authUseCase "github.com/openfoundry/releases/internal/auth/usecase"
)

// PATRepository returns the personal access token repository based on
// database driver.
func (c *Container) PATRepository() (authUseCase.PATRepository, error) {
	var err error
	c.patRepositoryInit.Do(func() {
		c.patRepository, err = c.initPATRepository()
		if err != nil {
			c.initErrors["patRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["patRepository"]; exists {
		return nil, storedErr
	}
	return c.patRepository, nil
}

// PATService returns the personal access token service.
func (c *Container) PATService() authService.PATService {
	c.patServiceInit.Do(func() {
		c.patService = authService.NewPATService()
	})
	return c.patService
}

// SigningSecret returns the process-wide session token signing secret,
// generating it on first access. Session tokens do not survive a restart.
func (c *Container) SigningSecret() (authService.SigningSecret, error) {
	var err error
	c.signingSecretInit.Do(func() {
		c.signingSecret, err = authService.NewSigningSecret()
		if err != nil {
			c.initErrors["signingSecret"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signingSecret"]; exists {
		return nil, storedErr
	}
	return c.signingSecret, nil
}

// SessionTokenService returns the session token signer.
func (c *Container) SessionTokenService() (authService.SessionTokenService, error) {
	var err error
	c.sessionTokensInit.Do(func() {
		var secret authService.SigningSecret
		secret, err = c.SigningSecret()
		if err != nil {
			c.initErrors["sessionTokens"] = err
			return
		}
		c.sessionTokens = authService.NewJWTSigner(secret, nil)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionTokens"]; exists {
		return nil, storedErr
	}
	return c.sessionTokens, nil
}

// TokenUseCase returns the token use case, decorated with metrics when
// metrics are enabled.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the token HTTP handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		var useCase authUseCase.TokenUseCase
		useCase, err = c.TokenUseCase()
		if err != nil {
			c.initErrors["tokenHandler"] = err
			return
		}
		c.tokenHandler = authHTTP.NewTokenHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initPATRepository creates the token repository for the configured driver.
func (c *Container) initPATRepository() (authUseCase.PATRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for pat repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLPATRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLPATRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	patRepo, err := c.PATRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get pat repository for token use case: %w", err)
	}

	tokenService, err := c.SessionTokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get session token service for token use case: %w", err)
	}

	useCase := authUseCase.NewTokenUseCase(c.config, patRepo, c.PATService(), tokenService)

	if c.config.MetricsEnabled {
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		useCase = authUseCase.NewTokenUseCaseWithMetrics(useCase, bm)
	}

	return useCase, nil
}
