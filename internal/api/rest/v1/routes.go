package v1

import (
	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the key pair routes under BasePath.
func SetupRoutes(r *gin.Engine,
	generationService rsakeys.KeyPairGenerationService,
	metadataService rsakeys.KeyPairMetadataService,
	cipherService rsakeys.KeyPairCipherService) {

	v1 := r.Group(BasePath)

	keyHandler := NewKeyHandler(generationService, metadataService, cipherService)
	v1.POST("/keys", keyHandler.GenerateKeyPair)
	v1.GET("/keys", keyHandler.ListMetadata)
	v1.GET("/keys/:id", keyHandler.GetMetadataByID)
	v1.GET("/keys/:id/public", keyHandler.GetPublicKeyByID)
	v1.DELETE("/keys/:id", keyHandler.DeleteByID)
	v1.POST("/keys/:id/encrypt", keyHandler.Encrypt)
	v1.POST("/keys/:id/decrypt", keyHandler.Decrypt)
}
