package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"notify-center/pkg/response"
)

func init() {
	// 请求体出现未声明字段时直接拒绝
	binding.EnableDecoderDisallowUnknownFields = true

	// 校验错误中的字段名使用 json tag，与请求体保持一致
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// FieldError 单个字段的校验失败信息
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindJSON 严格解析并校验请求体；失败时写入 400 响应并返回 false
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", fieldErrors(verrs))
			return false
		}
		response.BadRequest(c, 10001, "请求体格式错误")
		return false
	}
	return true
}

// fieldErrors 将校验错误转换为 [{field, rule}]，field 为去掉根结构体名的路径，如 preferences.channels.email
func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		details = append(details, FieldError{Field: field, Rule: fe.Tag()})
	}
	return details
}
