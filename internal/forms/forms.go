// Package forms holds the declarative form schemas bound from POST bodies
// and checked through echo's Validator hook.
package forms

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// PostForm backs the new-post and edit-post pages.
type PostForm struct {
	Title    string `form:"title" validate:"required"`
	Subtitle string `form:"subtitle" validate:"required"`
	ImgURL   string `form:"img_url" validate:"required,url"`
	Body     string `form:"body" validate:"required"`
}

// RegisterForm backs the registration page.
type RegisterForm struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// LoginForm backs the login page.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// CommentForm backs the comment box on the post detail page.
type CommentForm struct {
	Body string `form:"body" validate:"required"`
}

// fieldLabels maps struct field names to the labels shown next to inline
// error messages.
var fieldLabels = map[string]string{
	"Title":    "Blog Post Title",
	"Subtitle": "Subtitle",
	"ImgURL":   "Blog Image URL",
	"Body":     "Content",
	"Name":     "Name",
	"Email":    "Email",
	"Password": "Password",
}

// Errors converts a validator error into per-field messages for re-rendering
// the form. Unknown errors produce a single generic entry.
func Errors(err error) map[string]string {
	messages := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		messages[""] = "The submitted form could not be processed."
		return messages
	}
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			messages[fe.Field()] = label + " is required."
		case "email":
			messages[fe.Field()] = "This is not a valid email address."
		case "url":
			messages[fe.Field()] = label + " must be a valid URL."
		default:
			messages[fe.Field()] = label + " is invalid."
		}
	}
	return messages
}
