package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDHeader optionally names the owner of a generated key pair.
const UserIDHeader = "X-User-ID"

// KeyHandler defines the interface for handling key pair operations
type KeyHandler interface {
	GenerateKeyPair(ctx *gin.Context)
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
	GetPublicKeyByID(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
	Encrypt(ctx *gin.Context)
	Decrypt(ctx *gin.Context)
}

type keyHandler struct {
	generationService rsakeys.KeyPairGenerationService
	metadataService   rsakeys.KeyPairMetadataService
	cipherService     rsakeys.KeyPairCipherService
}

// NewKeyHandler creates a new KeyHandler
func NewKeyHandler(
	generationService rsakeys.KeyPairGenerationService,
	metadataService rsakeys.KeyPairMetadataService,
	cipherService rsakeys.KeyPairCipherService,
) KeyHandler {
	return &keyHandler{
		generationService: generationService,
		metadataService:   metadataService,
		cipherService:     cipherService,
	}
}

// GenerateKeyPair handles the POST request to generate and store a key pair
// @Summary Generate an RSA key pair
// @Tags Key
// @Accept json
// @Produce json
// @Param requestBody body GenerateKeyPairRequest true "Key size in bits"
// @Success 201 {object} KeyPairMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys [post]
func (handler *keyHandler) GenerateKeyPair(ctx *gin.Context) {
	var request GenerateKeyPairRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid key data: %v", err)})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	userID := ctx.GetHeader(UserIDHeader)
	if userID == "" {
		userID = uuid.New().String()
	} else if _, err := uuid.Parse(userID); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid %s header", UserIDHeader)})
		return
	}

	keyPair, err := handler.generationService.Generate(ctx, userID, request.KeySize)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("error generating key pair: %v", err)})
		return
	}

	ctx.JSON(http.StatusCreated, NewKeyPairMetaResponse(keyPair))
}

// ListMetadata handles the GET request to list key pairs
// @Summary List key pairs
// @Tags Key
// @Produce json
// @Param keySize query int false "Key size in bits"
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Param sortBy query string false "id, key_size or date_time_created"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {array} KeyPairMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys [get]
func (handler *keyHandler) ListMetadata(ctx *gin.Context) {
	query := rsakeys.NewKeyPairQuery()

	for param, target := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		if raw := ctx.Query(param); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid %s: %s", param, raw)})
				return
			}
			*target = v
		}
	}
	if raw := ctx.Query("keySize"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid keySize: %s", raw)})
			return
		}
		query.KeySize = uint32(v)
	}
	if sortBy := ctx.Query("sortBy"); sortBy != "" {
		query.SortBy = sortBy
	}
	if sortOrder := ctx.Query("sortOrder"); sortOrder != "" {
		query.SortOrder = sortOrder
	}

	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	keyPairs, err := handler.metadataService.List(ctx, query)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err)})
		return
	}

	listResponse := make([]KeyPairMetaResponse, 0, len(keyPairs))
	for _, keyPair := range keyPairs {
		listResponse = append(listResponse, NewKeyPairMetaResponse(keyPair))
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// GetMetadataByID handles the GET request to retrieve a key pair by ID
// @Summary Retrieve key pair metadata by ID
// @Tags Key
// @Produce json
// @Param id path string true "Key pair ID"
// @Success 200 {object} KeyPairMetaResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id} [get]
func (handler *keyHandler) GetMetadataByID(ctx *gin.Context) {
	keyPairID := ctx.Param("id")

	keyPair, err := handler.metadataService.GetByID(ctx, keyPairID)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("key pair with id %s not found", keyPairID)})
		return
	}
	ctx.JSON(http.StatusOK, NewKeyPairMetaResponse(keyPair))
}

// GetPublicKeyByID serves the public key file of a key pair
// @Summary Download the public key of a key pair
// @Tags Key
// @Produce text/plain
// @Param id path string true "Key pair ID"
// @Success 200 {string} string "Public key file content"
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id}/public [get]
func (handler *keyHandler) GetPublicKeyByID(ctx *gin.Context) {
	keyPairID := ctx.Param("id")

	text, err := handler.metadataService.PublicKeyText(ctx, keyPairID)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("key pair with id %s not found", keyPairID)})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-public-key.pub", keyPairID))
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// DeleteByID handles the DELETE request to delete a key pair by ID
// @Summary Delete a key pair by ID
// @Tags Key
// @Param id path string true "Key pair ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id} [delete]
func (handler *keyHandler) DeleteByID(ctx *gin.Context) {
	keyPairID := ctx.Param("id")

	if err := handler.metadataService.DeleteByID(ctx, keyPairID); err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("error deleting key pair with id %s", keyPairID)})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Encrypt handles the POST request to encrypt with a stored public key
// @Summary Encrypt with a stored key pair
// @Tags Key
// @Accept json
// @Produce json
// @Param id path string true "Key pair ID"
// @Param requestBody body EncryptRequest true "Base64 plaintext"
// @Success 200 {object} EncryptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id}/encrypt [post]
func (handler *keyHandler) Encrypt(ctx *gin.Context) {
	keyPairID := ctx.Param("id")

	var request EncryptRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	cipherText, err := handler.cipherService.EncryptWithKey(ctx, keyPairID, request.PlainText)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("encryption failed: %v", err)})
		return
	}
	ctx.JSON(http.StatusOK, EncryptResponse{CipherText: cipherText})
}

// Decrypt handles the POST request to decrypt with a stored private key
// @Summary Decrypt with a stored key pair
// @Tags Key
// @Accept json
// @Produce json
// @Param id path string true "Key pair ID"
// @Param requestBody body DecryptRequest true "Base64 ciphertext"
// @Success 200 {object} DecryptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id}/decrypt [post]
func (handler *keyHandler) Decrypt(ctx *gin.Context) {
	keyPairID := ctx.Param("id")

	var request DecryptRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	plainText, err := handler.cipherService.DecryptWithKey(ctx, keyPairID, request.CipherText)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{Message: fmt.Sprintf("decryption failed: %v", err)})
		return
	}
	ctx.JSON(http.StatusOK, DecryptResponse{PlainText: plainText})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rsakeys.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, rsakeys.ErrInvalidKeySize),
		errors.Is(err, rsakeys.ErrBlockOutOfRange),
		errors.Is(err, rsakeys.ErrMalformedCiphertext),
		errors.Is(err, rsakeys.ErrModulusTooSmall):
		return http.StatusBadRequest
	case errors.Is(err, rsakeys.ErrGenerationTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
