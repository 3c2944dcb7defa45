package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/worldguard/WorldGuard/common"
	"github.com/worldguard/WorldGuard/service"
)

// GetOutcomes lists the retained audit outcomes of a chat, addressed by its
// opaque identifier.
func GetOutcomes(ctx *gin.Context) {
	outcomes, err := service.OutcomesByChatIdentifier(ctx.Param("ChatIdentifier"))
	if err != nil {
		common.ResponseError(ctx, http.StatusInternalServerError, err)
		return
	}
	common.ResponseSuccess(ctx, gin.H{
		"Outcomes": outcomes,
	})
}

func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
