package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/pkg/filestorage"
	"github.com/ymori/careertrack/internal/pkg/logger"
)

// FileController serves signed download URLs. Access control is the signature
// itself: the URL was issued only to a caller who already passed the ownership
// check, and it expires.
type FileController struct {
	storage *filestorage.LocalStorage
}

// NewFileController creates a new FileController
func NewFileController(storage *filestorage.LocalStorage) *FileController {
	return &FileController{storage: storage}
}

// Download verifies a signed URL and streams the object
func (c *FileController) Download(ctx *gin.Context) {
	bucket := ctx.Param("bucket")
	objPath := strings.TrimPrefix(ctx.Param("path"), "/")
	expires := ctx.Query("expires")
	signature := ctx.Query("signature")

	if err := c.storage.VerifySignedURL(bucket, objPath, expires, signature); err != nil {
		if errors.Is(err, filestorage.ErrSignatureExpired) {
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse("ダウンロードURLの有効期限が切れています"))
			return
		}
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse("不正なダウンロードURLです"))
		return
	}

	obj, err := c.storage.Open(bucket, objPath)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("ファイルが見つかりません"))
		return
	}
	defer obj.Close()

	ctx.Header("Content-Disposition", "attachment")
	ctx.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(ctx.Writer, obj); err != nil {
		logger.Warn().Err(err).Str("path", objPath).Msg("Download stream interrupted")
	}
}
