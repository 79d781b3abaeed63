package service

import "errors"

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrEmptyName       = errors.New("student name is empty")
	ErrInvalidCourse   = errors.New("unknown course")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidClasses  = errors.New("invalid number of classes")
	ErrRecordNotFound  = errors.New("attendance record not found")
)
