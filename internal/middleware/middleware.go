package middleware

import (
	"net/http"
	"strconv"

	"github.com/anvesht/ragline/internal/handlers"
	"github.com/anvesht/ragline/internal/metrics"
	"github.com/anvesht/ragline/pkg/logx"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logx.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var QueryHandler = Wrap(handlers.QueryHandler)
var QueryStreamHandler = Wrap(handlers.QueryStreamHandler)
var IndexHandler = Wrap(handlers.IndexHandler)
var UploadHandler = Wrap(handlers.UploadHandler)
var ListCollectionsHandler = Wrap(handlers.ListCollectionsHandler)
var DeleteCollectionHandler = Wrap(handlers.DeleteCollectionHandler)
var ClearCacheHandler = Wrap(handlers.ClearCacheHandler)
var HealthHandler = Wrap(handlers.HealthHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logx.NewLogger("middleware")

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)
	return re
}
