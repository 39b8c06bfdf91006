package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextUserID is the gin context key set by the auth middleware.
const ContextUserID = "userID"

func UserID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString(ContextUserID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return id, nil
}
