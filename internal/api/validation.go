package api

import (
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/common"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxTagNameLength = 64

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators 在 gin 的绑定引擎上注册自定义校验规则。
func registerValidators() error {
	validatorsOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		validatorsErr = engine.RegisterValidation("tagname", validateTagName)
	})
	return validatorsErr
}

// validateTagName accepts names that are non-blank once normalised and fit
// the registry column.
func validateTagName(fl validator.FieldLevel) bool {
	normalized := common.NormalizeTag(fl.Field().String())
	return normalized != "" && utf8.RuneCountInString(normalized) <= maxTagNameLength
}

// pathID 解析路径中的 UUID 参数，失败时写入 400 响应。
func pathID(c *gin.Context, param, kind string) (string, bool) {
	id, err := entity.ParseUUID(kind, c.Param(param))
	if err != nil {
		BadRequest(c, ErrCodeInvalidID, err.Error())
		return "", false
	}
	return id, true
}

// queryProjectID 解析可选的 project_id 查询参数。
func queryProjectID(c *gin.Context) (*entity.ProjectID, bool) {
	raw, present := c.GetQuery("project_id")
	if !present || raw == "" {
		return nil, true
	}
	id, err := entity.ParseUUID("project", raw)
	if err != nil {
		BadRequest(c, ErrCodeInvalidID, err.Error())
		return nil, false
	}
	projectID := entity.ProjectID(id)
	return &projectID, true
}
