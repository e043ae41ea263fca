package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danmuck/pbdecode/internal/frame"
	"github.com/danmuck/pbdecode/internal/input"
	"github.com/danmuck/pbdecode/internal/observability"
	"github.com/danmuck/pbdecode/internal/render"
	"github.com/danmuck/pbdecode/internal/wire"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts health, readiness, metrics and decode handlers.
func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/decode", s.handleDecode)
}

func (s *Server) handleDecode(c *gin.Context) {
	enc, err := input.ParseEncoding(c.DefaultQuery("encoding", s.cfg.Decoder.Encoding))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	format, err := render.ParseFormat(c.DefaultQuery("format", s.cfg.Decoder.Format))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	framing, err := frame.ParseFraming(c.DefaultQuery("framing", s.cfg.Decoder.Framing))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d := *s.decoder
	if raw := c.Query("max_depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_depth must be a positive integer"})
			return
		}
		d.MaxDepth = n
	}

	data, err := input.Read(c.Request.Body, enc, s.cfg.MaxBodyBytes)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, input.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	payloads, err := frame.Split(data, framing, s.frameLimits())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "framing"})
		return
	}

	msgs := make([]*wire.Message, 0, len(payloads))
	for i, payload := range payloads {
		msg, err := d.Decode(payload)
		observability.RecordDecode(len(payload), err)
		if err != nil {
			s.logger.Warn().Err(err).Int("message", i).Int("bytes", len(payload)).Msg("decode failed")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": wire.ErrorKind(err)})
			return
		}
		if msg.Incomplete > 0 {
			s.logger.Warn().Int("message", i).Int("bytes", msg.Incomplete).Msg("trailing record incomplete")
		}
		msgs = append(msgs, msg)
	}

	if format == render.FormatJSON {
		if framing == frame.FramingGRPC {
			views := make([]render.MessageView, 0, len(msgs))
			for _, msg := range msgs {
				views = append(views, render.Tree(msg))
			}
			c.JSON(http.StatusOK, gin.H{"frames": views})
			return
		}
		c.JSON(http.StatusOK, render.Tree(msgs[0]))
		return
	}
	var buf bytes.Buffer
	for i, msg := range msgs {
		if framing == frame.FramingGRPC {
			fmt.Fprintf(&buf, "# frame %d (%d bytes)\n", i, len(payloads[i]))
		}
		if err := (render.Text{}).Render(&buf, msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (s *Server) frameLimits() frame.Limits {
	limits := frame.DefaultLimits()
	if n := s.cfg.MaxBodyBytes; n > 0 && n < int64(limits.MaxPayloadBytes) {
		limits.MaxPayloadBytes = uint32(n)
	}
	return limits
}
