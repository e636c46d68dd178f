package router

import (
	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Middlewares bundles the cross-cutting middleware used by the route groups.
// RateLimit guards authentication endpoints, Cache fronts public listings, and
// Session/Active gate everything that needs a signed-in (verified) user.
type Middlewares struct {
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
	Session   echo.MiddlewareFunc
	Active    echo.MiddlewareFunc
}

// RegisterAuth wires the account endpoints. Registration, login and the
// verification flow are open; /v1/auth/user-info requires a valid session
// cookie and an activated account.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m Middlewares) {
	g := e.Group("/v1/auth")
	if m.RateLimit != nil {
		g.Use(m.RateLimit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/send-verification-email", a.SendVerificationEmail)
	g.GET("/verify-email", a.VerifyEmail)
	g.GET("/user-info", a.UserInfo, m.Session, m.Active)
}

// RegisterUsers wires profile, profession and instructor endpoints. Reads are
// public so that visitor pages render without a session; every mutation runs
// behind the session and activation middleware.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, m Middlewares) {
	pub := e.Group("/v1/users")
	if m.Cache != nil {
		pub.GET("/professions", u.GetProfessions, m.Cache)
		pub.GET("/instructors", u.GetInstructors, m.Cache)
	} else {
		pub.GET("/professions", u.GetProfessions)
		pub.GET("/instructors", u.GetInstructors)
	}
	pub.GET("/instructors/search", u.SearchInstructors)
	pub.GET("/:id", u.GetUserProfile)
	pub.GET("/:id/avatar", u.GetAvatar)
	pub.GET("/:id/cover-image", u.GetCoverImage)

	priv := e.Group("/v1/users", m.Session, m.Active)
	priv.PATCH("/:id", u.UpdateUserProfile)
	priv.DELETE("/:id", u.DeleteUserProfile)
	priv.PATCH("/:id/password", u.UpdatePassword)
	priv.POST("/:id/avatar", u.UploadAvatar)
	priv.PUT("/:id/avatar", u.UploadAvatar)
	priv.DELETE("/:id/avatar", u.DeleteAvatar)
	priv.POST("/:id/cover-image", u.UploadCoverImage)
	priv.PUT("/:id/cover-image", u.UploadCoverImage)
	priv.DELETE("/:id/cover-image", u.DeleteCoverImage)
}

// RegisterGuides wires the guide endpoints. Listing and reading are public;
// authoring requires a verified instructor session.
func RegisterGuides(e *echo.Echo, g *handler.GuideHandler, m Middlewares) {
	pub := e.Group("/v1/guides")
	if m.Cache != nil {
		pub.GET("", g.List, m.Cache)
	} else {
		pub.GET("", g.List)
	}
	pub.GET("/search", g.Search)
	pub.GET("/:id", g.Get)

	priv := e.Group("/v1/guides", m.Session, m.Active)
	priv.POST("", g.Create)
	priv.PATCH("/:id", g.Update)
	priv.DELETE("/:id", g.Delete)
}
