package repositories

import "errors"

// Sentinel errors the controllers map onto the HTTP error taxonomy.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")

	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrCategoryInUse     = errors.New("category is referenced by expenses")

	ErrExpenseNotFound = errors.New("expense not found")

	ErrProfileNotFound = errors.New("tax profile not found")

	ErrReturnNotFound     = errors.New("tax return not found")
	ErrReturnAlreadyFiled = errors.New("tax return already filed for this year")
)
