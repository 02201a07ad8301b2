// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"invoport/internal/core/apperror"
	"invoport/pkg/logger"
)

// Recovery converts a handler panic into a 500 response without leaking
// internals. A panic caused by the client dropping the connection is
// logged at warn without a stack and the request is aborted unanswered.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if isBrokenPipe(rec) {
				logger.Warn(c.Request.Context(), "client connection lost",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"error", rec,
				)
				c.Abort()
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", rec,
				"stack", string(debug.Stack()),
			)
			// the unwound ErrorHandler cannot respond anymore, so the
			// response is written here
			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", rec)))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    apperror.CodeInternal,
				"message": "Internal server error",
			})
		}()
		c.Next()
	}
}

// isBrokenPipe detects the EPIPE / ECONNRESET family that surfaces as a
// panic from the response writer.
func isBrokenPipe(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if !errors.As(opErr.Err, &sysErr) {
		return false
	}
	msg := strings.ToLower(sysErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
