package https

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/rendau/smsgw/gwTypes"
	cors "github.com/rs/cors/wrapper/gin"
)

const (
	ReadHeaderTimeout = 10 * time.Second
	ReadTimeout       = 2 * time.Minute
	MaxHeaderBytes    = 300 * 1024
	ShutdownTimeout   = 20 * time.Second

	errCodeTimeout = "timeout"
)

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
// A listener failure is returned as is.
func Serve(ctx context.Context, lg logger.Lite, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		MaxHeaderBytes:    MaxHeaderBytes,
	}

	eChan := make(chan error, 1)

	go func() {
		eChan <- server.ListenAndServe()
	}()

	lg.Infow("Http-api started", "addr", addr)

	select {
	case err := <-eChan:
		lg.Errorw("Http-api stopped", err, "addr", addr)
		return err
	case <-ctx.Done():
	}

	sCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(sCtx); err != nil {
		lg.Errorw("Fail to shutdown http-api", err, "addr", addr)
		return err
	}

	lg.Infow("Http-api stopped", "addr", addr)

	return nil
}

// Bind fills obj from the query on GET and from the json body otherwise.
// On failure the error is queued for MwErrors and false is returned.
func Bind(c *gin.Context, obj any) bool {
	var err error

	code := gwErrs.BadJson

	if c.Request.Method == http.MethodGet {
		code = gwErrs.BadQueryParams
		err = c.ShouldBindQuery(obj)
	} else {
		err = c.ShouldBindJSON(obj)
	}

	if err != nil {
		_ = c.Error(gwErrs.ErrWithDesc{Err: code, Desc: err.Error()})
		return false
	}

	return true
}

// Reply writes obj with 200, or leaves err to MwErrors.
func Reply(c *gin.Context, obj any, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, obj)
}

// ErrStatus is the http code for err. Caller mistakes are 4xx,
// any other known error came from the gateway side.
func ErrStatus(err error) int {
	switch {
	case errors.Is(err, gwErrs.InvalidArgument),
		errors.Is(err, gwErrs.BadJson),
		errors.Is(err, gwErrs.BadQueryParams),
		errors.Is(err, gwErrs.BadPhone):
		return http.StatusBadRequest
	case errors.Is(err, gwErrs.ObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, gwErrs.ServiceNA):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	return http.StatusBadGateway
}

// MwErrors renders the last queued handler error as gwTypes.ErrRep.
// Errors outside gwErrs are logged and hidden behind a bare 500,
// deadlines excepted.
func MwErrors(lg logger.WarnAndError) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		gErr := c.Errors.Last()
		if gErr == nil || c.Writer.Written() {
			return
		}

		err := gErr.Err

		var withDesc gwErrs.ErrWithDesc
		var plain gwErrs.Err

		switch {
		case errors.As(err, &withDesc):
			c.AbortWithStatusJSON(ErrStatus(err), gwTypes.ErrRep{ErrorCode: string(withDesc.Err), Desc: withDesc.Desc})
		case errors.As(err, &plain):
			c.AbortWithStatusJSON(ErrStatus(err), gwTypes.ErrRep{ErrorCode: string(plain)})
		case errors.Is(err, context.DeadlineExceeded):
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gwTypes.ErrRep{ErrorCode: errCodeTimeout})
		default:
			lg.Errorw("Unhandled http-api error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	}
}

func MwRecovery(lg logger.WarnAndError) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		lg.Errorw("Panic in http-api", rec, "method", c.Request.Method, "path", c.Request.URL.Path)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// MwCors allows the listed origins, "*" allows any.
func MwCors(origins []string) gin.HandlerFunc {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	})
}
