package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"media-forensics/backend/internal/analysis"
	"media-forensics/backend/internal/fetch"
	"media-forensics/backend/internal/indicators"
	"media-forensics/backend/internal/scoring"
)

const defaultMaxUploadBytes int64 = 64 << 20

var errUploadTooLarge = errors.New("uploaded file is too large")

// Config defines server dependencies.
type Config struct {
	Analyzer       *analysis.Analyzer
	Indicators     *indicators.Service
	AllowedOrigins []string
	FetchTimeout   time.Duration
	MaxUploadBytes int64
}

// Server wires HTTP handlers with the analyzers and the indicator store.
type Server struct {
	analyzer       *analysis.Analyzer
	indicators     *indicators.Service
	allowedOrigins []string
	fetchTimeout   time.Duration
	maxUploadBytes int64
	notifier       *AnalysisNotifier
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Analyzer == nil {
		return nil, errors.New("analyzer required")
	}
	if cfg.Indicators == nil {
		return nil, errors.New("indicator service required")
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &Server{
		analyzer:       cfg.Analyzer,
		indicators:     cfg.Indicators,
		allowedOrigins: cfg.AllowedOrigins,
		fetchTimeout:   cfg.FetchTimeout,
		maxUploadBytes: maxUpload,
		notifier:       NewAnalysisNotifier(),
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analyze := r.Group("/analyze")
	{
		analyze.POST("/image", s.handleAnalyzeImage)
		analyze.POST("/video", s.handleAnalyzeVideo)
		analyze.POST("/audio", s.handleAnalyzeAudio)
		analyze.POST("/link", s.handleAnalyzeLink)
	}

	api := r.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/config", s.handleConfig)
		api.GET("/indicators", s.handleListIndicators)
		api.POST("/indicators", s.handleAddIndicators)
		api.DELETE("/indicators/:kind/:value", s.handleDeleteIndicator)
		api.GET("/stream", s.handleStream)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	opts := s.analyzer.Options()
	c.JSON(http.StatusOK, ConfigResponse{
		VideoStrategy:       string(opts.VideoStrategy),
		MaxVideoFrames:      opts.MaxVideoFrames,
		InferenceEnabled:    s.analyzer.InferenceEnabled(),
		IndicatorCounts:     s.analyzer.Indicators().Counts(),
		FetchTimeoutSeconds: s.fetchTimeout.Seconds(),
	})
}

func (s *Server) handleAnalyzeImage(c *gin.Context) {
	header, ok := s.formFile(c)
	if !ok {
		return
	}
	src, err := header.Open()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	defer src.Close()

	img, format, err := analysis.DecodeImage(src)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("decoded image upload")

	respond(s, c, analysis.ModalityImage, s.analyzer.Image(c.Request.Context(), img))
}

func (s *Server) handleAnalyzeVideo(c *gin.Context) {
	data, ok := s.readUpload(c)
	if !ok {
		return
	}
	respond(s, c, analysis.ModalityVideo, s.analyzer.Video(c.Request.Context(), data))
}

func (s *Server) handleAnalyzeAudio(c *gin.Context) {
	data, ok := s.readUpload(c)
	if !ok {
		return
	}
	respond(s, c, analysis.ModalityAudio, s.analyzer.Audio(c.Request.Context(), data))
}

func (s *Server) handleAnalyzeLink(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("url is required")
		}
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	result, err := s.analyzer.Link(c.Request.Context(), req.URL)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fetch.ErrEmptyURL) {
			status = http.StatusBadRequest
		}
		s.renderError(c, status, err)
		return
	}
	respond(s, c, analysis.ModalityLink, result)
}

func (s *Server) handleListIndicators(c *gin.Context) {
	c.JSON(http.StatusOK, IndicatorsFromSnapshot(s.indicators.Snapshot()))
}

func (s *Server) handleAddIndicators(c *gin.Context) {
	var req IndicatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "api"
	}

	added, err := s.indicators.Add(req.Entries, source)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"added":  added,
		"source": source,
	}).Info("indicators added")
	c.JSON(http.StatusOK, AddIndicatorsResponse{
		Added:  added,
		Counts: s.indicators.Snapshot().Counts(),
	})
}

func (s *Server) handleDeleteIndicator(c *gin.Context) {
	kind, value := c.Param("kind"), c.Param("value")
	if err := s.indicators.Remove(kind, value); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.renderError(c, http.StatusNotFound, fmt.Errorf("indicator %s %q not found", kind, value))
		case errors.Is(err, indicators.ErrNoStore):
			s.renderError(c, http.StatusServiceUnavailable, err)
		case errors.Is(err, scoring.ErrUnknownIndicatorKind):
			s.renderError(c, http.StatusBadRequest, err)
		default:
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				return true
			}
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket closed")
			} else {
				logrus.WithError(err).Warn("analysis websocket unexpected close")
			}
			break
		}
	}
}

// respond writes the analysis result and publishes it to stream subscribers.
func respond[V scoring.Verdict](s *Server, c *gin.Context, modality string, result scoring.Decision[V]) {
	if result.Reasons == nil {
		result.Reasons = []scoring.Evidence{}
	}
	id := uuid.NewString()
	s.notifier.Broadcast(AnalysisEvent{
		Type:       "analysis",
		ID:         id,
		Modality:   modality,
		Verdict:    string(result.Verdict),
		Confidence: result.Confidence,
	})
	logrus.WithFields(logrus.Fields{
		"analysis_id": id,
		"modality":    modality,
	}).Debug("analysis published")
	c.JSON(http.StatusOK, AnalysisResponse[V]{ID: id, Modality: modality, Decision: result})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) formFile(c *gin.Context) (*multipart.FileHeader, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			s.renderError(c, http.StatusBadRequest, errors.New("file upload is required"))
		} else {
			s.renderError(c, http.StatusBadRequest, err)
		}
		return nil, false
	}
	if header.Size > s.maxUploadBytes {
		s.renderError(c, http.StatusRequestEntityTooLarge, errUploadTooLarge)
		return nil, false
	}
	return header, true
}

func (s *Server) readUpload(c *gin.Context) ([]byte, bool) {
	header, ok := s.formFile(c)
	if !ok {
		return nil, false
	}
	data, err := readFormFile(header, s.maxUploadBytes)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errUploadTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.renderError(c, status, err)
		return nil, false
	}
	return data, true
}

func readFormFile(header *multipart.FileHeader, limit int64) ([]byte, error) {
	if header == nil {
		return nil, errors.New("file header is nil")
	}
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	return data, nil
}
