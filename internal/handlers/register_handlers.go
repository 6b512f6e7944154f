package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/platform/config"
)

// validCurrencyCode accepts three uppercase ASCII letters, the shape of an
// ISO 4217 code. Unknown codes are allowed; they default to two decimals.
func validCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", validCurrencyCode)
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos *portsrepo.RepositoryProvider,
	queue portssvc.Queue,
) {
	registerValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services, repos, queue)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	repos *portsrepo.RepositoryProvider,
	queue portssvc.Queue,
) {
	// Tenant identity rides on the path; an API gateway in front of this
	// service enforces who may speak for which tenant.
	v1 := r.Group("/api/v1")
	tenants := v1.Group("/tenants/:tenantID")

	registerJournalRoutes(tenants, services.Journal)
	registerReconciliationRoutes(tenants, services.Reconciliation, repos.DiscrepancyRepo, queue)
	registerOutboxRoutes(tenants, repos.OutboxRepo)
}
