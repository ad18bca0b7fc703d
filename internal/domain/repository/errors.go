package repository

import "errors"

// ErrRecordNotFound is returned by Find* methods when no row matches.
var ErrRecordNotFound = errors.New("record not found")

// ErrInsufficientStock is returned by conditional stock decrements that would go below zero.
var ErrInsufficientStock = errors.New("insufficient stock")
