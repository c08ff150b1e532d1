package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"goodcitizen/internal/config"
	"goodcitizen/internal/handler"
	"goodcitizen/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	reportHandler *handler.ReportHandler,
	adminHandler *handler.AdminHandler,
	authorityHandler *handler.AuthorityHandler,
	rewardHandler *handler.RewardHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/otp", authHandler.OTPLogin)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.GET("/me", authHandler.Me)

	// Report routes
	secured.POST("/reports", reportHandler.Create)
	secured.GET("/reports", reportHandler.List)
	secured.GET("/reports/my-reports", reportHandler.MyReports)
	secured.GET("/reports/:id", reportHandler.Get)
	secured.DELETE("/reports/:id", reportHandler.Delete)
	secured.POST("/reports/:id/peer-verify", reportHandler.PeerVerify)

	// User routes
	secured.GET("/users/leaderboard", userHandler.Leaderboard)
	secured.GET("/users/stats", userHandler.Stats)
	secured.GET("/users/:id", userHandler.Get)

	// Reward routes
	secured.GET("/rewards", rewardHandler.List)
	secured.POST("/rewards/redeem", rewardHandler.Redeem)
	secured.GET("/rewards/my-redemptions", rewardHandler.MyRedemptions)
	secured.POST("/rewards/redemptions/:id/use", rewardHandler.Use)

	// Authority registry, browsable by any signed-in user
	secured.GET("/authorities", authorityHandler.List)

	// Admin routes
	admin := secured.Group("/admin", RequireRole(model.RoleAdmin))
	admin.GET("/reports/pending", adminHandler.PendingReports)
	admin.GET("/reports/export", adminHandler.Export)
	admin.POST("/reports/:id/verify", adminHandler.Verify)
	admin.POST("/reports/:id/reject", adminHandler.Reject)
	admin.GET("/stats", adminHandler.Stats)
	admin.POST("/authorities", authorityHandler.Create)
	admin.PUT("/authorities/:id", authorityHandler.Update)
	admin.DELETE("/authorities/:id", authorityHandler.Delete)

	// Resolution can come from the assigned authority as well as an admin.
	secured.POST("/admin/reports/:id/resolve",
		adminHandler.Resolve, RequireRole(model.RoleAdmin, model.RoleAuthority))
}

// RequireRole rejects requests whose JWT role claim is not in the allowed set.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := handler.RoleFromContext(c)
			if err != nil {
				return err
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
