package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ymori/careertrack/internal/pkg/apperrors"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation message surfaces", apperrors.NewBadRequestError("企業名を入力してください"), http.StatusBadRequest, "企業名を入力してください"},
		{"wrapped validation sentinel", fmt.Errorf("%w: invalid application ID", apperrors.ErrValidationFailed), http.StatusBadRequest, "入力内容に誤りがあります"},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "メールアドレスまたはパスワードが正しくありません"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "認証が必要です"},
		{"origin mismatch", apperrors.ErrOriginMismatch, http.StatusForbidden, "不正なリクエストです"},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, "権限がありません"},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, "このメールアドレスは既に登録されています"},
		{"attachment limit", apperrors.ErrAttachmentLimit, http.StatusBadRequest, "添付ファイルは10件までです"},
		{"attachment too large", apperrors.ErrAttachmentTooLarge, http.StatusBadRequest, "ファイルサイズは5MB以下にしてください"},
		{"invalid invite token", apperrors.ErrInvalidInviteToken, http.StatusBadRequest, "無効または期限切れのトークンです"},
		{"used invite token", apperrors.ErrInviteTokenUsed, http.StatusBadRequest, "無効または期限切れのトークンです"},
		{"application not found", apperrors.ErrApplicationNotFound, http.StatusNotFound, "リソースが見つかりません"},
		{"storage write failure", apperrors.ErrStorageWriteFailed, http.StatusInternalServerError, "ファイル処理に失敗しました"},
		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError, "サーバーエラーが発生しました"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, msg := classifyError(c.err)
			if status != c.wantStatus {
				t.Errorf("status = %d, want %d", status, c.wantStatus)
			}
			if msg != c.wantMsg {
				t.Errorf("message = %q, want %q", msg, c.wantMsg)
			}
		})
	}
}

func TestClassifyError_NeverLeaksInternalDetail(t *testing.T) {
	// Unknown errors must not surface their own text to the client
	internal := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	_, msg := classifyError(internal)
	if msg != "サーバーエラーが発生しました" {
		t.Errorf("internal error text leaked: %q", msg)
	}
}
