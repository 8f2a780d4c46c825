package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")

	// Creature errors
	ErrCreatureNotFound   = errors.New("creature not found")
	ErrCreatureNameExists = errors.New("creature name already exists")

	// Category errors
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category name already exists")

	// Question errors
	ErrQuestionNotFound = errors.New("question not found")
)
