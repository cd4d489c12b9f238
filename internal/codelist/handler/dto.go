package handler

import (
	"net/http"
	"strconv"
	"time"

	"polly/internal/codelist/refreshlog"
	"polly/internal/codelist/source"
	"polly/internal/codelist/store"
	dErrors "polly/pkg/domain-errors"
)

// maxRefreshesLimit caps GET /admin/codelist/refreshes?limit=.
const maxRefreshesLimit = 500

type countryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type sourceResultResponse struct {
	Source     string `json:"source"`
	Entries    int    `json:"entries"`
	DurationMS int64  `json:"duration_ms"`
	Stale      bool   `json:"stale,omitempty"`
	Error      string `json:"error,omitempty"`
	Category   string `json:"category,omitempty"`
}

type reportResponse struct {
	ID         string                 `json:"id"`
	Generation uint64                 `json:"generation"`
	Trigger    string                 `json:"trigger"`
	Refresh    bool                   `json:"refresh"`
	Skipped    bool                   `json:"skipped,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	DurationMS int64                  `json:"duration_ms"`
	Sources    []sourceResultResponse `json:"sources"`
}

type refreshesResponse struct {
	Refreshes []refreshlog.Entry `json:"refreshes"`
}

type statusResponse struct {
	Status     string `json:"status"`
	Phase      string `json:"phase,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
}

func toReportResponse(r store.Report) reportResponse {
	resp := reportResponse{
		ID:         r.ID.String(),
		Generation: r.Generation,
		Trigger:    r.Trigger,
		Refresh:    r.Refresh,
		Skipped:    r.Skipped,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMS: r.Duration().Milliseconds(),
		Sources:    make([]sourceResultResponse, 0, len(r.Sources)),
	}
	for _, sr := range r.Sources {
		out := sourceResultResponse{
			Source:     sr.Source.String(),
			Entries:    sr.Entries,
			DurationMS: sr.Duration.Milliseconds(),
			Stale:      sr.Stale,
		}
		if sr.Err != nil {
			out.Error = sr.Err.Error()
			out.Category = string(source.GetCategory(sr.Err))
		}
		resp.Sources = append(resp.Sources, out)
	}
	return resp
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return refreshlog.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > maxRefreshesLimit {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "limit must be between 1 and "+strconv.Itoa(maxRefreshesLimit))
	}
	return limit, nil
}
