package middleware

import (
	"github.com/labstack/echo/v4"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/usecase"
)

// EchoInteractorMiddleware builds the request's HeroUseCase from the logger
// and repository locator already in context. It must run after
// EchoLoggerMiddleware and EchoRepoLocatorMiddleware.
func EchoInteractorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			interactor := &usecase.HeroUseCase{
				Logger: appcontext.GetLogger(ctx),
			}
			if locator := appcontext.GetRepoLocator(ctx); locator != nil {
				interactor.RHero = locator.RHero()
			}

			ctx = appcontext.SetInteractor(ctx, interactor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
