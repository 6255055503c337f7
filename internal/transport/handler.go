package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-cell-segmenter/internal/config"
	apperrors "go-cell-segmenter/internal/errors"
	"go-cell-segmenter/internal/logger"
	"go-cell-segmenter/internal/service"
	"go-cell-segmenter/pkg/models"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func NewHandler(svc service.SegmentationService, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.POST("/segment", segmentImagePair(svc, cfg))
	r.POST("/segment/batch", segmentBatch(svc, cfg))

	return r
}

func segmentImagePair(svc service.SegmentationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		// Log request start
		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing segmentation request")

		var req models.SegmentationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		response, err := svc.SegmentImagePair(ctx, req)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"seed_url":      req.SeedURL,
				"intensity_url": req.IntensityURL,
				"ip":            c.ClientIP(),
			}).Error("Segmentation request failed")
			respondError(c, determineStatusCode(err), "segmentation failed", err)
			return
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"job_id":             response.JobID,
			"seed_url":           req.SeedURL,
			"intensity_url":      req.IntensityURL,
			"object_count":       response.ObjectCount,
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Segmentation completed successfully")

		c.JSON(http.StatusOK, response)
	}
}

func segmentBatch(svc service.SegmentationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchSegmentationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid batch request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		response, err := svc.SegmentBatch(ctx, req)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"items": len(req.Items),
				"ip":    c.ClientIP(),
			}).Error("Batch segmentation request failed")
			respondError(c, determineStatusCode(err), "batch segmentation failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"job_id": response.JobID,
			"items":  len(response.Results),
		}).Info("Batch segmentation completed")

		c.JSON(http.StatusOK, response)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
