package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// scrapingConfig is the wire shape of the scraper settings. Intervals and
// delays are expressed in whole seconds.
type scrapingConfig struct {
	Enabled          bool `json:"enabled"`
	ScheduleInterval int  `json:"schedule_interval"`
	MaxRetries       int  `json:"max_retries"`
	RetryDelay       int  `json:"retry_delay"`
	BatchSize        int  `json:"batch_size"`
	ProcessImages    bool `json:"process_images"`
}

func (s *Server) currentConfig() scrapingConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scrapingConfig{
		Enabled:          s.sched.Status().Enabled,
		ScheduleInterval: int(s.settings.ScheduleInterval.Seconds()),
		MaxRetries:       s.settings.MaxRetries,
		RetryDelay:       int(s.settings.RetryDelay.Seconds()),
		BatchSize:        s.settings.BatchSize,
		ProcessImages:    s.settings.ProcessImages,
	}
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.currentConfig())
	case http.MethodPost:
		s.handleUpdateConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg scrapingConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid configuration")
		return
	}

	s.mu.Lock()
	if cfg.ScheduleInterval > 0 {
		s.settings.ScheduleInterval = time.Duration(cfg.ScheduleInterval) * time.Second
	}
	if cfg.MaxRetries > 0 {
		s.settings.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		s.settings.RetryDelay = time.Duration(cfg.RetryDelay) * time.Second
	}
	if cfg.BatchSize > 0 {
		s.settings.BatchSize = cfg.BatchSize
	}
	s.settings.Enabled = cfg.Enabled
	s.settings.ProcessImages = cfg.ProcessImages
	interval := s.settings.ScheduleInterval
	maxRetries := s.settings.MaxRetries
	retryDelay := s.settings.RetryDelay
	batchSize := s.settings.BatchSize
	s.mu.Unlock()

	s.pipe.SetEnrichment(cfg.ProcessImages)
	s.pipe.SetIngestPolicy(maxRetries, retryDelay, batchSize)
	s.sched.SetInterval(interval)
	if cfg.Enabled {
		s.sched.Start()
	} else {
		s.sched.Stop()
	}

	s.writeJSON(w, http.StatusOK, s.currentConfig())
}

func (s *Server) handleSchedulerStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.sched.Start()
	s.writeJSON(w, http.StatusOK, s.sched.Status())
}

func (s *Server) handleSchedulerStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.sched.Stop()
	s.writeJSON(w, http.StatusOK, s.sched.Status())
}

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sched.Status())
}
