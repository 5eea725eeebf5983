package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink/internal/domain"
)

const identityKey = "identity"

// SessionReader expone la identidad actual del Session Store.
type SessionReader interface {
	Get() *domain.Identity
}

// requireSession corta con 401 si no hay una sesión activa y guarda la identidad en el contexto.
func requireSession(store SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store not configured"})
			c.Abort()
			return
		}
		identity := store.Get()
		if identity == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity obtiene la identidad guardada por requireSession.
func CurrentIdentity(c *gin.Context) (*domain.Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}
