// Package api provides the REST API server for an OpenDeck device
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dolsoidduk/OpenDeck/pkg/buttons"
	"github.com/dolsoidduk/OpenDeck/pkg/device"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

// @title OpenDeck API
// @version 1.0
// @description API for driving and configuring a virtual OpenDeck button engine
// @host localhost:8080
// @BasePath /api/v1

// Server exposes a device over HTTP
type Server struct {
	dev *device.Device
}

// ValueRequest is the body of configuration writes
type ValueRequest struct {
	Value *int `json:"value" binding:"required"`
}

// NoteRequest is the body of sax fingering captures
type NoteRequest struct {
	Note int `json:"note"`
}

// PresetRequest is the body of preset switches
type PresetRequest struct {
	Preset *int `json:"preset" binding:"required"`
}

// NewRouter builds the gin engine serving dev
func NewRouter(dev *device.Device) *gin.Engine {
	s := &Server{dev: dev}

	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/message-types", listMessageTypes)
		v1.GET("/buttons", s.listButtons)
		v1.GET("/buttons/:index/:section", s.getButtonConfig)
		v1.PUT("/buttons/:index/:section", s.setButtonConfig)
		v1.POST("/buttons/:index/press", s.pressButton)
		v1.POST("/buttons/:index/release", s.releaseButton)
		v1.POST("/analog/:component/:action", s.analogButton)
		v1.POST("/touchscreen/:component/:action", s.touchscreenButton)
		v1.POST("/refresh", s.refresh)
		v1.POST("/sax/capture/:entry", s.captureSax)
		v1.GET("/preset", s.getPreset)
		v1.PUT("/preset", s.setPreset)
		v1.POST("/sysex", s.sysExConf)
		v1.GET("/events", s.listEvents)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(dev *device.Device, port int) error {
	return NewRouter(dev).Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "opendeck",
	})
}

// listMessageTypes godoc
// @Summary List button message types
// @Description Returns the MESSAGE_TYPE values with their names
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]interface{}
// @Router /api/v1/message-types [get]
func listMessageTypes(c *gin.Context) {
	types := make([]gin.H, 0, buttons.MessageTypeAmount)
	for m := buttons.MessageType(0); m < buttons.MessageTypeAmount; m++ {
		types = append(types, gin.H{"id": int(m), "name": m.String()})
	}

	c.JSON(http.StatusOK, gin.H{"message_types": types})
}

// listButtons godoc
// @Summary List buttons
// @Description Returns configuration summary and runtime state of every button
// @Tags buttons
// @Produce json
// @Success 200 {object} map[string][]device.ButtonStatus
// @Router /api/v1/buttons [get]
func (s *Server) listButtons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"buttons": s.dev.Buttons()})
}

// getButtonConfig godoc
// @Summary Read a button configuration value
// @Tags config
// @Produce json
// @Param index path int true "Button index"
// @Param section path string true "Section name (type, message_type, midi_id, value, channel, ...)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/buttons/{index}/{section} [get]
func (s *Server) getButtonConfig(c *gin.Context) {
	index, section, ok := configTarget(c)
	if !ok {
		return
	}

	value, status := s.dev.ConfigGet(section, index)
	if status != sysconfig.StatusAck {
		c.JSON(http.StatusNotFound, gin.H{"error": status.String()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"index":   index,
		"section": section.String(),
		"value":   value,
		"status":  status.String(),
	})
}

// setButtonConfig godoc
// @Summary Write a button configuration value
// @Tags config
// @Accept json
// @Produce json
// @Param index path int true "Button index"
// @Param section path string true "Section name"
// @Param body body ValueRequest true "New value"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/buttons/{index}/{section} [put]
func (s *Server) setButtonConfig(c *gin.Context) {
	index, section, ok := configTarget(c)
	if !ok {
		return
	}

	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Value < 0 || *req.Value > 0xFFFF {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": sysconfig.StatusErrorWrite.String()})
		return
	}

	status := s.dev.ConfigSet(section, index, uint16(*req.Value))
	if status != sysconfig.StatusAck {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": status.String()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}

func configTarget(c *gin.Context) (int, sysconfig.Section, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid button index"})
		return 0, 0, false
	}

	section, ok := sysconfig.ParseSection(c.Param("section"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section"})
		return 0, 0, false
	}

	return index, section, true
}

// pressButton godoc
// @Summary Press a button
// @Description Feeds a pressed reading and returns the emitted events
// @Tags buttons
// @Produce json
// @Param index path int true "Button index"
// @Success 200 {object} map[string][]device.Entry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/buttons/{index}/press [post]
func (s *Server) pressButton(c *gin.Context) {
	s.reading(c, true)
}

// releaseButton godoc
// @Summary Release a button
// @Description Feeds a released reading and returns the emitted events
// @Tags buttons
// @Produce json
// @Param index path int true "Button index"
// @Success 200 {object} map[string][]device.Entry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/buttons/{index}/release [post]
func (s *Server) releaseButton(c *gin.Context) {
	s.reading(c, false)
}

func (s *Server) reading(c *gin.Context, state bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid button index"})
		return
	}

	s.respondWithEvents(c, func() error {
		return s.dev.SetReading(index, state)
	})
}

// analogButton godoc
// @Summary Analog input acting as a button
// @Tags buttons
// @Produce json
// @Param component path int true "Analog component"
// @Param action path string true "press or release"
// @Success 200 {object} map[string][]device.Entry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/analog/{component}/{action} [post]
func (s *Server) analogButton(c *gin.Context) {
	s.componentEvent(c, s.dev.AnalogButton)
}

// touchscreenButton godoc
// @Summary Touchscreen component acting as a button
// @Tags buttons
// @Produce json
// @Param component path int true "Touchscreen component"
// @Param action path string true "press or release"
// @Success 200 {object} map[string][]device.Entry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/touchscreen/{component}/{action} [post]
func (s *Server) touchscreenButton(c *gin.Context) {
	s.componentEvent(c, s.dev.TouchscreenButton)
}

func (s *Server) componentEvent(c *gin.Context, send func(component int, state bool) error) {
	component, err := strconv.Atoi(c.Param("component"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid component"})
		return
	}

	var state bool
	switch c.Param("action") {
	case "press":
		state = true
	case "release":
		state = false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be press or release"})
		return
	}

	s.respondWithEvents(c, func() error {
		return send(component, state)
	})
}

// respondWithEvents runs op and replies with the entries it produced
func (s *Server) respondWithEvents(c *gin.Context, op func() error) {
	last := ""
	if latest := s.dev.Events("", 1); len(latest) > 0 {
		last = latest[0].ID
	}

	if err := op(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, buttons.ErrInvalidIndex) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": s.dev.Events(last, 0)})
}

// refresh godoc
// @Summary Resend all button states
// @Tags buttons
// @Produce json
// @Success 200 {object} map[string][]device.Entry
// @Router /api/v1/refresh [post]
func (s *Server) refresh(c *gin.Context) {
	s.respondWithEvents(c, func() error {
		s.dev.Refresh()
		return nil
	})
}

// captureSax godoc
// @Summary Capture a sax fingering
// @Description Stores the currently held digital inputs as a fingering table row
// @Tags sax
// @Accept json
// @Produce json
// @Param entry path int true "Fingering table row"
// @Param body body NoteRequest true "Note for the row (values above 127 keep the stored note)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/v1/sax/capture/{entry} [post]
func (s *Server) captureSax(c *gin.Context) {
	entry, err := strconv.Atoi(c.Param("entry"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry"})
		return
	}

	req := NoteRequest{Note: 0xFF}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Note < 0 || req.Note > 0xFFFF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note"})
		return
	}

	if err := s.dev.CaptureSax(entry, uint16(req.Note)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": sysconfig.StatusAck.String()})
}

// getPreset godoc
// @Summary Active preset
// @Tags presets
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/v1/preset [get]
func (s *Server) getPreset(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preset": s.dev.Preset()})
}

// setPreset godoc
// @Summary Switch the active preset
// @Tags presets
// @Accept json
// @Produce json
// @Param body body PresetRequest true "Preset index"
// @Success 200 {object} map[string][]device.Entry
// @Failure 400 {object} map[string]string
// @Router /api/v1/preset [put]
func (s *Server) setPreset(c *gin.Context) {
	var req PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.dev.SetPreset(*req.Preset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preset": *req.Preset})
}

// sysExConf godoc
// @Summary Apply a SysExConf request
// @Description Accepts a raw SysExConf frame and returns the response frame
// @Tags config
// @Accept application/octet-stream
// @Produce application/octet-stream
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/sysex [post]
func (s *Server) sysExConf(c *gin.Context) {
	frame, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request"})
		return
	}

	resp, err := s.dev.HandleSysExConf(frame)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", resp)
}

// listEvents godoc
// @Summary Recorded events
// @Description Returns recorded bus events, optionally only those after a given ID
// @Tags events
// @Produce json
// @Param after query string false "Return entries after this ID"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} map[string][]device.Entry
// @Router /api/v1/events [get]
func (s *Server) listEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	c.JSON(http.StatusOK, gin.H{"events": s.dev.Events(c.Query("after"), limit)})
}
