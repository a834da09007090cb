package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/pkg/logger"
	"github.com/prohmpiriya/canteen-storefront/pkg/response"
	"go.uber.org/zap"
)

// DecisionKey is the gin context key holding the guard decision
const DecisionKey = "guard_decision"

// RequireRole guards views restricted to role. A pending session renders
// the loading placeholder; a denied one is redirected to landing.
func RequireRole(store Snapshotter, role domain.Role, landing string) gin.HandlerFunc {
	return handle(store, landing, func(c *gin.Context) Decision {
		return Evaluate(store.Snapshot(), role)
	})
}

// RequireLogin guards views that need any signed-in shopper
func RequireLogin(store Snapshotter, loginPath string) gin.HandlerFunc {
	return handle(store, loginPath, func(c *gin.Context) Decision {
		return EvaluateLogin(store.Snapshot())
	})
}

func handle(store Snapshotter, redirectTo string, decide func(c *gin.Context) Decision) gin.HandlerFunc {
	if redirectTo == "" {
		redirectTo = "/"
	}

	return func(c *gin.Context) {
		decision := decide(c)
		c.Set(DecisionKey, decision)

		switch decision {
		case Pending:
			response.Loading(c)
		case Denied:
			logger.Get().Named("guard").Debug("Guarded view denied",
				zap.String("path", c.Request.URL.Path),
				zap.String("role", store.Snapshot().Role.String()),
			)
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
		default:
			c.Next()
		}
	}
}
