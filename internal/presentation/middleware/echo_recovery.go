package middleware

import (
	"fmt"
	"runtime/debug"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/interface-adapter/response"
)

// EchoRecoveryMiddleware recovers from panics and logs them with trace information
func EchoRecoveryMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "middleware.recovery")
			defer span.Finish()

			c.SetRequest(c.Request().WithContext(ctx))

			// trace ids are captured before next can panic
			spanContext := span.Context()
			traceID := strconv.FormatUint(spanContext.TraceID(), 10)
			spanID := strconv.FormatUint(spanContext.SpanID(), 10)

			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stackTrace := string(debug.Stack())
				panicErr := fmt.Errorf("panic recovered: %v", r)

				logging.LogErrorWithTrace(ctx, appcontext.GetLogger(ctx), "middleware", "Panic recovered", panicErr, logrus.Fields{
					"panic.value":       fmt.Sprintf("%v", r),
					"panic.stack_trace": stackTrace,
					"http.method":       c.Request().Method,
					"http.url":          c.Request().URL.Path,
					"dd.trace_id":       traceID,
					"dd.span_id":        spanID,
				})

				span.SetTag("error", true)
				span.SetTag("error.type", "panic")
				span.SetTag("error.msg", fmt.Sprintf("%v", r))
				span.SetTag("error.stack", stackTrace)
				span.SetTag("error.notify", true)

				problem := response.NewInternalErrorProblem(
					"The server panicked while handling the request",
					c.Request().URL.Path,
					true,
				)
				if c.Response().Committed {
					err = panicErr
					return
				}
				err = response.RespondProblemWithTrace(ctx, c.Response(), problem)
			}()

			return next(c)
		}
	}
}
