// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/catalog"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/title"
	"github.com/ManuGH/availwin/internal/windows"
	"github.com/go-chi/chi/v5"
)

// VideoWindowsResponse is the body of the windows endpoint.
type VideoWindowsResponse struct {
	VideoID int64                  `json:"videoId"`
	Country string                 `json:"country"`
	Locale  string                 `json:"locale,omitempty"`
	Live    bool                   `json:"live"`
	Windows []*availability.Window `json:"windows"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.version})
}

// titleParams reads the shared path and query parameters.
func titleParams(r *http.Request) (videoID int64, country string, mode windows.Mode, err error) {
	videoID, err = strconv.ParseInt(chi.URLParam(r, "videoID"), 10, 64)
	if err != nil || videoID <= 0 {
		return 0, "", windows.Mode{}, errors.New("videoID must be a positive integer")
	}
	country = strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "country")))
	if len(country) != 2 {
		return 0, "", windows.Mode{}, errors.New("country must be a two-letter code")
	}
	locale := strings.TrimSpace(r.URL.Query().Get("locale"))
	return videoID, country, windows.ModeFor(locale), nil
}

func (s *Server) handleVideoWindows(w http.ResponseWriter, r *http.Request) {
	videoID, country, mode, err := titleParams(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	res, err := s.processor.ProcessVideo(r.Context(), videoID, country, mode)
	switch {
	case errors.Is(err, catalog.ErrVideoNotFound):
		writeNotFound(w, r, err.Error())
		return
	case err != nil:
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Int64(log.FieldVideoID, videoID).Str(log.FieldCountry, country).Msg("compute windows failed")
		writeInternal(w, r)
		return
	}

	locale, _ := mode.Locale()
	writeJSON(w, http.StatusOK, VideoWindowsResponse{
		VideoID: videoID,
		Country: country,
		Locale:  locale,
		Live:    res.Live,
		Windows: res.Windows,
	})
}

func (s *Server) handleTitleRollup(w http.ResponseWriter, r *http.Request) {
	showID, country, mode, err := titleParams(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	res, err := s.processor.ProcessShow(r.Context(), showID, country, mode)
	switch {
	case errors.Is(err, title.ErrShowNotFound):
		writeNotFound(w, r, err.Error())
		return
	case err != nil:
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Int64("show_id", showID).Str(log.FieldCountry, country).Msg("title rollup failed")
		writeInternal(w, r)
		return
	}
	if res.Windows == nil {
		res.Windows = []*availability.Window{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	if s.holder == nil {
		writeServiceUnavailable(w, r, "configuration reload is not available")
		return
	}
	if err := s.holder.Reload(r.Context()); err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, "reload_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
