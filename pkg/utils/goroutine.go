package utils

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"golang-stock-sentiment/pkg/logger"
)

// GoSafe runs fn in a goroutine and logs instead of crashing on panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports false once ctx is done, logging why.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Warn("Context done, stopping", logger.StringField("reason", fmt.Sprint(ctx.Err())))
		return false
	default:
		return true
	}
}
