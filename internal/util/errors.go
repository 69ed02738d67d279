package util

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameTaken      = errors.New("该用户名已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
