package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadhub-backend/document-service/services"
	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/config"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/guard"
	utils "leadhub-backend/shared/utils/auth"
	"leadhub-backend/shared/utils/query"
	"leadhub-backend/shared/utils/rbac"
)

type DocumentHandler struct {
	db      *gorm.DB
	storage *services.StorageService
}

func NewDocumentHandler(db *gorm.DB, storage *services.StorageService) *DocumentHandler {
	return &DocumentHandler{db: db, storage: storage}
}

func maxUploadBytes() int64 {
	cfg := config.GetConfig()
	maxMB, err := strconv.Atoi(cfg.DocumentServiceMaxFileSizeMB)
	if err != nil || maxMB < 1 {
		maxMB = 25
	}
	return int64(maxMB) * 1024 * 1024
}

// tenantStorageUsed sums the stored bytes for a tenant.
func (h *DocumentHandler) tenantStorageUsed(tenantID uuid.UUID) (int64, error) {
	var used int64
	err := h.db.Model(&models.TenantDocument{}).
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&used).Error
	return used, err
}

// UploadDocument stores a file in the tenant's workspace
// @Summary Upload a document
// @Description Stores the file in object storage under the tenant's namespace; enforces the per-file size cap and the tenant's max_storage_gb limit
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param file formData file true "File to upload"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Stored document"
// @Failure 403 {object} map[string]string "Feature disabled"
// @Failure 413 {object} map[string]string "File too large or storage limit reached"
// @Router /documents/{slug} [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyDocuments)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		apperr.Respond(c, apperr.Validation("File is required"))
		return
	}
	defer file.Close()

	maxBytes := maxUploadBytes()
	if header.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("File exceeds the %d MB limit", maxBytes/(1024*1024)),
		})
		return
	}

	if ctx.Tenant.MaxStorageGb != nil {
		used, err := h.tenantStorageUsed(ctx.Tenant.ID)
		if err != nil {
			apperr.Respond(c, apperr.Internal("Failed to compute storage usage"))
			return
		}
		limit := int64(*ctx.Tenant.MaxStorageGb) * 1024 * 1024 * 1024
		if used+header.Size > limit {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "This workspace has reached its storage limit",
			})
			return
		}
	}

	token, err := utils.GenerateRandomToken(16)
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to generate object key"))
		return
	}
	objectKey := services.TenantObjectKey(ctx.Tenant.ID, token)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.storage.Upload(c.Request.Context(), objectKey, file, header.Size, contentType); err != nil {
		apperr.Respond(c, apperr.Internal("Failed to store file"))
		return
	}

	doc := models.TenantDocument{
		TenantID:     ctx.Tenant.ID,
		UploadedByID: ctx.UserID,
		ObjectKey:    objectKey,
		FileName:     header.Filename,
		SizeBytes:    header.Size,
		ContentType:  contentType,
	}
	if err := h.db.Create(&doc).Error; err != nil {
		// Best effort: don't leave an orphaned object behind.
		h.storage.Remove(c.Request.Context(), objectKey)
		apperr.Respond(c, apperr.Internal("Failed to record document"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Document uploaded successfully",
		"data":    doc,
	})
}

// GetDocuments lists the tenant's documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search across file names"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Feature disabled"
// @Router /documents/{slug} [get]
func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyDocuments)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	params := query.ParseListParams(c)

	dbQuery := h.db.Model(&models.TenantDocument{}).
		Where("tenant_id = ?", ctx.Tenant.ID)
	dbQuery = query.Searched(dbQuery, params.Search, "file_name")
	dbQuery = query.Sorted(dbQuery, params, map[string]string{
		"file_name":  "file_name",
		"size_bytes": "size_bytes",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to count documents"))
		return
	}

	var docs []models.TenantDocument
	if err := query.Paginated(dbQuery, params).Preload("UploadedBy").Find(&docs).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve documents"))
		return
	}

	used, _ := h.tenantStorageUsed(ctx.Tenant.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      docs,
			"pagination": query.Meta(params, total),
			"storage": gin.H{
				"used_bytes":     used,
				"max_storage_gb": ctx.Tenant.MaxStorageGb,
			},
		},
	})
}

// DownloadDocument streams a stored document
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Param slug path string true "Tenant slug"
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {file} binary "File contents"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{slug}/{id}/download [get]
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyDocuments)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid document ID format"))
		return
	}

	var doc models.TenantDocument
	err = h.db.Where("id = ? AND tenant_id = ?", docID, ctx.Tenant.ID).First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		apperr.Respond(c, apperr.NotFound("Document not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve document"))
		return
	}

	object, err := h.storage.Download(c.Request.Context(), doc.ObjectKey)
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to fetch file"))
		return
	}
	defer object.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("Content-Type", doc.ContentType)
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.ContentType, object, nil)
}

// DeleteDocument removes a document
// @Summary Delete a document
// @Description Uploaders can delete their own documents; others need SUPERVISOR or higher
// @Tags documents
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "No delete permission"
// @Router /documents/{slug}/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyDocuments)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid document ID format"))
		return
	}

	var doc models.TenantDocument
	err = h.db.Where("id = ? AND tenant_id = ?", docID, ctx.Tenant.ID).First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		apperr.Respond(c, apperr.NotFound("Document not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve document"))
		return
	}

	actor := ctx.Actor()
	if !actor.IsSuperAdmin && doc.UploadedByID != actor.UserID && !rbac.HasRole(actor.Role, rbac.RoleSupervisor) {
		apperr.Respond(c, apperr.Forbidden("You cannot delete this document"))
		return
	}

	if err := h.db.Delete(&doc).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to delete document"))
		return
	}
	if err := h.storage.Remove(c.Request.Context(), doc.ObjectKey); err != nil {
		// The row is gone; a leftover object is cleaned up by the tenant
		// namespace wipe.
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Document deleted; storage cleanup pending",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Document deleted successfully",
	})
}
