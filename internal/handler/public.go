package handler

import (
	"net/http"

	"github.com/Priyanshusingh0818/GORUS/config"
	"github.com/Priyanshusingh0818/GORUS/internal/models"

	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	info models.StoreInfo
}

func NewPublicHandler(cfg config.StoreConfig) *PublicHandler {
	return &PublicHandler{info: models.StoreInfo{
		Name:       cfg.Name,
		Tagline:    cfg.Tagline,
		Email:      cfg.Email,
		Phone:      cfg.Phone,
		Address:    cfg.Address,
		UPIID:      cfg.UPIID,
		UPIPayee:   cfg.UPIPayee,
		UPIQRImage: cfg.UPIQRImage,
	}}
}

func (h *PublicHandler) GetStoreInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}
