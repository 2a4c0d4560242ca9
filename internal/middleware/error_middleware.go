package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to one response envelope. Validation
// failures surface their own message; authorization failures surface a fixed
// generic text so a caller cannot probe whether a target exists; upstream
// failures surface a localized generic message with the detail kept server-side.
func HandleAPIError(c *gin.Context, err error) {
	status, message := classifyError(err)
	c.JSON(status, dto.NewErrorResponse(message))
}

func classifyError(err error) (int, string) {
	// A CustomError carries its own user-facing text
	var custom *apperrors.CustomError
	hasMessage := errors.As(err, &custom) && custom.Message != ""

	switch {
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidationFailed):
		if hasMessage {
			return http.StatusBadRequest, custom.Message
		}
		return http.StatusBadRequest, "入力内容に誤りがあります"

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "メールアドレスまたはパスワードが正しくありません"

	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, "認証が必要です"

	case errors.Is(err, apperrors.ErrOriginMismatch):
		return http.StatusForbidden, "不正なリクエストです"

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, "権限がありません"

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, "このメールアドレスは既に登録されています"

	case errors.Is(err, apperrors.ErrEmailDomainNotAllowed):
		return http.StatusBadRequest, "許可されていないメールドメインです"

	case errors.Is(err, apperrors.ErrAttachmentLimit):
		return http.StatusBadRequest, "添付ファイルは10件までです"

	case errors.Is(err, apperrors.ErrAttachmentTooLarge):
		return http.StatusBadRequest, "ファイルサイズは5MB以下にしてください"

	case errors.Is(err, apperrors.ErrInvalidCategory):
		return http.StatusBadRequest, "不正なカテゴリです"

	case errors.Is(err, apperrors.ErrInvalidInviteToken),
		errors.Is(err, apperrors.ErrInviteTokenUsed):
		return http.StatusBadRequest, "無効または期限切れのトークンです"

	case errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrAttachmentNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrProfileNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		if hasMessage {
			return http.StatusNotFound, custom.Message
		}
		return http.StatusNotFound, "リソースが見つかりません"

	case errors.Is(err, apperrors.ErrConflict):
		if hasMessage {
			return http.StatusConflict, custom.Message
		}
		return http.StatusConflict, "リソースが競合しています"

	case errors.Is(err, apperrors.ErrStorageWriteFailed),
		errors.Is(err, apperrors.ErrStorageRemoveFailed):
		return http.StatusInternalServerError, "ファイル処理に失敗しました"

	default:
		return http.StatusInternalServerError, "サーバーエラーが発生しました"
	}
}
