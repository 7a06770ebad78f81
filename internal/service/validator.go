package service

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

var (
	// mainland mobile number: 1, then 3-9, then 9 digits
	phoneTag   = "cnphone"
	phoneText  = "请输入正确的手机号码"
	phoneRegex = regexp.MustCompile(`^1[3-9]\d{9}$`)

	requiredTag  = "required"
	requiredText = "请填写{0}"
)

// LoginForm is the input of Login.
type LoginForm struct {
	Username string `label:"用户名" validate:"required"`
	Password string `label:"密码" validate:"required"`
}

// RegisterForm is the input of Register.
type RegisterForm struct {
	Username string `label:"用户名" validate:"required"`
	Phone    string `label:"手机号码" validate:"required,cnphone"`
	Password string `label:"密码" validate:"required"`
}

type PostForm struct {
	Title   string `label:"标题" validate:"required"`
	Content string `label:"内容" validate:"required"`
	Link    string `label:"链接"`
}

type QuoteForm struct {
	Text string `label:"名言" validate:"required"`
}

type ResourceForm struct {
	Title    string `label:"资料标题" validate:"required"`
	Module   string `label:"所属模块" validate:"required"`
	FileName string `label:"文件" validate:"required"`
}

type SuggestionForm struct {
	Content string `label:"建议内容" validate:"required"`
}

type ReplyForm struct {
	Text string `label:"回复内容" validate:"required"`
}

type WordUploadForm struct {
	Module   string `label:"模块名称" validate:"required"`
	FileName string `label:"单词文件" validate:"required"`
}

// Validator checks form structs and reports the first failure in chinese.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator registers the zh translations and the custom tags.
func NewValidator() *Validator {
	locale := zh.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("zh")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = zh_translations.RegisterDefaultTranslations(validate, translator)

	// Use the label tag as the field name in messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	registerTranslation(validate, translator, phoneTag, phoneText, false)
	registerTranslation(validate, translator, requiredTag, requiredText, true)

	return &Validator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Check validates form and returns a *ValidationError for the first invalid field.
func (v *Validator) Check(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.StructField(), Message: fe.Translate(v.translator)}
	}
	return err
}

// ValidPhone reports whether phone is a valid mainland mobile number.
func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}
