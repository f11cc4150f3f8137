package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"echeck-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// optionalDependency is implemented by checkers whose outage only disables a
// feature, such as the print archive.
type optionalDependency interface {
	Optional() bool
}

type depStatus struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. Dependencies are pinged in parallel, each
// under its own timeout. A required dependency down answers 503; an optional
// one down only marks the service degraded.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			mu   sync.Mutex
			wg   sync.WaitGroup
			deps = make(map[string]depStatus, len(checkers))
		)
		for _, checker := range checkers {
			wg.Add(1)
			go func(hc ports.HealthChecker) {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
				defer cancel()

				st := depStatus{Status: "healthy"}
				if opt, ok := hc.(optionalDependency); ok {
					st.Optional = opt.Optional()
				}
				if err := hc.Ping(ctx); err != nil {
					st.Status, st.Error = "unhealthy", err.Error()
				}

				mu.Lock()
				deps[hc.Name()] = st
				mu.Unlock()
			}(checker)
		}
		wg.Wait()

		status, code := "healthy", http.StatusOK
		for _, st := range deps {
			if st.Status == "healthy" {
				continue
			}
			status = "degraded"
			if !st.Optional {
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
