package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/ratelimit"
	"moff.io/chia-walletconnect/pkg/concurrent"
	"moff.io/chia-walletconnect/pkg/errors"
	"moff.io/chia-walletconnect/pkg/log"
	"moff.io/chia-walletconnect/pkg/log/meta"
)

// ///////////////////////////////////////////////////////////
// ///////////////////   Gin Middleware  /////////////////////
// ///////////////////////////////////////////////////////////

const requestIDHeader = "x-request-id"

// Custom response writer to record handler response body.
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write writes response message into response body and the connection.
func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

type httpInfo struct {
	RequestID     string            `json:"request_id,omitempty"`
	Headers       map[string]string `json:"headers"`
	Method        string            `json:"method"`
	RequestAPI    string            `json:"request_api,omitempty"`
	RemoteAddr    string            `json:"remote_addr,omitempty"`
	Response      *response         `json:"response,omitempty"`
	ExecutionTime string            `json:"execution_time,omitempty"`
}

func (in *httpInfo) String() string {
	b, _ := json.Marshal(in)
	return string(b)
}

func newHTTPInfo(ctx *gin.Context) *httpInfo {
	return &httpInfo{
		RequestID:  meta.RequestID(ctx.Request.Context()),
		Headers:    requestHeaderFilter(ctx.Request.Header),
		Method:     ctx.Request.Method,
		RequestAPI: ctx.Request.RequestURI,
		RemoteAddr: ctx.ClientIP(),
	}
}

// RecoveredHTTPLog gin框架请求日志拦截器，拦截请求与响应，打印日志
// 请求上下文中会注入元信息对象与请求ID，请求头x-request-id缺失时生成新的ID
func RecoveredHTTPLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rctx := meta.Begin(ctx.Request.Context())
		requestID := ctx.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		meta.WithRequestID(rctx, requestID)
		ctx.Request = ctx.Request.WithContext(rctx)

		// 自定义writer，抓取响应
		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
		ctx.Writer = w

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				log.Error(errors.ErrorfAndReport("%v", r))
			}
			logHTTP(ctx, w, start)
		}()
		ctx.Next()
	}
}

const defaultRequestTimeout = time.Second * 60

// TimeoutHTTP HTTP超时拦截器，未指定或非正数时使用默认超时
func TimeoutHTTP(timeout ...time.Duration) gin.HandlerFunc {
	d := defaultRequestTimeout
	if len(timeout) != 0 && timeout[0] > 0 {
		d = timeout[0]
	}
	return func(ctx *gin.Context) {
		timeoutCtx, cancelFunc := context.WithTimeout(ctx.Request.Context(), d)
		defer cancelFunc()
		ctx.Request = ctx.Request.WithContext(timeoutCtx)
		ctx.Next()
	}
}

// Throttle 限制每秒通过的请求数，超出时阻塞等待.
// 非正数表示不限流
func Throttle(perSecond int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	rl := ratelimit.New(perSecond)
	return func(ctx *gin.Context) {
		rl.Take()
		// 等待期间请求可能已超时或被取消
		if err := ctx.Request.Context().Err(); err != nil {
			ctx.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "request expired while throttled",
			})
			return
		}
		ctx.Next()
	}
}

// Pending 限制同时处理中的请求数，超出时直接返回429
func Pending(limiter concurrent.Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.TryAdd() {
			log.Warnf("http - %v %v rejected, %d requests pending", ctx.Request.Method, ctx.Request.URL.Path, limiter.Working())
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many pending wallet requests",
			})
			return
		}
		defer limiter.Done()
		ctx.Next()
	}
}

// 根据响应状态，打印http日志
func logHTTP(ctx *gin.Context, w *responseBodyWriter, start time.Time) {
	// 如果没有写入响应则写入内部错误
	if !ctx.Writer.Written() {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server internal error",
		})
	}

	s := w.Status()
	info := newHTTPInfo(ctx)
	info.Response = decodeHandlerResponse(w.body.Bytes(), s)
	info.ExecutionTime = fmt.Sprintf("%vms", time.Since(start).Milliseconds())
	switch {
	case s < http.StatusBadRequest:
		log.Info(info)
	case s >= http.StatusInternalServerError:
		log.Error(info)
	default:
		log.Warn(info)
	}
}

type response struct {
	//ProtocolCode is the response protocol status code
	ProtocolCode int `json:"protocol_code"`
	//Error is the error message written by the handler, if any.
	Error interface{} `json:"error,omitempty"`
}

func decodeHandlerResponse(respBody []byte, httpCode int) *response {
	resp := response{ProtocolCode: httpCode}
	if httpCode >= http.StatusBadRequest {
		_ = json.Unmarshal(respBody, &resp)
	}
	return &resp
}

var excludedHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"token":         true,
	"access-token":  true,
}

func requestHeaderFilter(headers map[string][]string) map[string]string {
	filtered := make(map[string]string)
	for k, v := range headers {
		k = strings.ToLower(k)
		if excludedHeaders[k] {
			continue
		}
		filtered[k] = strings.Join(v, ";")
	}
	return filtered
}
