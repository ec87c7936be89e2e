package forms

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

var validate = validator.New()

func TestPostForm(t *testing.T) {
	tests := []struct {
		name      string
		form      PostForm
		wantValid bool
		wantField string
	}{
		{
			name:      "valid",
			form:      PostForm{Title: "T", Subtitle: "S", ImgURL: "http://x/y.png", Body: "B"},
			wantValid: true,
		},
		{
			name:      "missing title",
			form:      PostForm{Subtitle: "S", ImgURL: "http://x/y.png", Body: "B"},
			wantField: "Title",
		},
		{
			name:      "malformed image url",
			form:      PostForm{Title: "T", Subtitle: "S", ImgURL: "not a url", Body: "B"},
			wantField: "ImgURL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantValid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, Errors(err), tt.wantField)
		})
	}
}

func TestRegisterForm(t *testing.T) {
	tests := []struct {
		name      string
		form      RegisterForm
		wantValid bool
		wantField string
	}{
		{
			name:      "valid",
			form:      RegisterForm{Name: "N", Email: "a@b.c", Password: "p"},
			wantValid: true,
		},
		{
			name:      "invalid email",
			form:      RegisterForm{Name: "N", Email: "not-an-email", Password: "p"},
			wantField: "Email",
		},
		{
			name:      "missing password",
			form:      RegisterForm{Name: "N", Email: "a@b.c"},
			wantField: "Password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantValid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, Errors(err), tt.wantField)
		})
	}
}

func TestLoginForm(t *testing.T) {
	assert.NoError(t, validate.Struct(LoginForm{Email: "a@b.c", Password: "p"}))
	assert.Error(t, validate.Struct(LoginForm{Email: "", Password: "p"}))
	assert.Error(t, validate.Struct(LoginForm{Email: "bad", Password: "p"}))
}

func TestCommentForm(t *testing.T) {
	assert.NoError(t, validate.Struct(CommentForm{Body: "hello"}))
	assert.Error(t, validate.Struct(CommentForm{}))
}

func TestErrorsMessageText(t *testing.T) {
	err := validate.Struct(RegisterForm{Name: "N", Email: "bad", Password: "p"})
	messages := Errors(err)
	assert.Equal(t, "This is not a valid email address.", messages["Email"])
}
