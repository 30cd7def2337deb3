package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/pkg/storage"
	"github.com/educado/backend/internal/service"
)

type ContentHandler struct {
	contents *service.ContentService
	store    *storage.FileStore
}

func NewContentHandler(contentService *service.ContentService, store *storage.FileStore) *ContentHandler {
	return &ContentHandler{contents: contentService, store: store}
}

// ListByModule 模块详情与有序内容
func (h *ContentHandler) ListByModule(c *gin.Context) {
	moduleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	listing, err := h.contents.ListByModule(uint(moduleID), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "module not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Create 先校验 kind 再绑定载荷；file/image 走 multipart，text/video 走 JSON
func (h *ContentHandler) Create(c *gin.Context) {
	moduleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	kind := model.ItemKind(c.Param("kind"))
	if !model.ValidKind(kind) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content kind"})
		return
	}

	input, ok := h.bindItemInput(c, kind, true)
	if !ok {
		return
	}

	content, err := h.contents.Create(c.Request.Context(), uint(moduleID), currentUserID(c), kind, input)
	if err != nil {
		h.cleanupUpload(input)
		switch {
		case errors.Is(err, service.ErrModuleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "module not found"})
		case errors.Is(err, service.ErrUnknownKind):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown content kind"})
		case errors.Is(err, service.ErrMissingPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing item payload"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, content)
}

func (h *ContentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	input, ok := h.bindItemInput(c, "", false)
	if !ok {
		return
	}

	content, err := h.contents.Update(c.Request.Context(), uint(id), currentUserID(c), input)
	if err != nil {
		h.cleanupUpload(input)
		if errors.Is(err, service.ErrContentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	storedPath, err := h.contents.Delete(c.Request.Context(), uint(id), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Remove(storedPath); err != nil {
		klog.V(6).Infof("清理上传文件失败 %s: %v", storedPath, err)
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Reorder 接收 {内容ID: 新位置} 映射
func (h *ContentHandler) Reorder(c *gin.Context) {
	var order map[string]int
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contents.Reorder(c.Request.Context(), currentUserID(c), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": "OK"})
}

// bindItemInput 解析条目载荷。file/image 走 multipart（title + file 表单字段并落盘），
// text/video 走 JSON；创建时载荷形态与 kind 不符直接拒绝。
// 更新时 kind 为空，形态仅由 Content-Type 决定。返回 false 时已写出错误响应。
func (h *ContentHandler) bindItemInput(c *gin.Context, kind model.ItemKind, create bool) (service.ItemInput, bool) {
	uploadKind := kind == model.KindFile || kind == model.KindImage
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if create && !uploadKind {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s content expects a JSON body", kind)})
			return service.ItemInput{}, false
		}
		title := c.PostForm("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return service.ItemInput{}, false
		}

		input := service.ItemInput{Title: title}
		fileHeader, err := c.FormFile("file")
		if err != nil {
			if create {
				c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
				return service.ItemInput{}, false
			}
			return input, true
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
			return service.ItemInput{}, false
		}
		defer src.Close()

		storedPath, size, err := h.store.Save(src, fileHeader.Filename)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
			return service.ItemInput{}, false
		}
		input.StoredPath = storedPath
		input.OriginalName = fileHeader.Filename
		input.Size = size
		return input, true
	}

	if create && uploadKind {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s content requires a multipart file upload", kind)})
		return service.ItemInput{}, false
	}

	var req struct {
		Title string `json:"title" binding:"required,max=200"`
		Body  string `json:"body"`
		URL   string `json:"url" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.ItemInput{}, false
	}
	return service.ItemInput{Title: req.Title, Body: req.Body, URL: req.URL}, true
}

// cleanupUpload 创建失败时回收已落盘的上传文件
func (h *ContentHandler) cleanupUpload(input service.ItemInput) {
	if input.StoredPath == "" {
		return
	}
	if err := h.store.Remove(input.StoredPath); err != nil {
		klog.V(6).Infof("清理上传文件失败 %s: %v", input.StoredPath, err)
	}
}
