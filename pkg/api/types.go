package api

import (
	"time"

	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/record"
)

// SessionCookie carries the session token for browser clients
const SessionCookie = "assetview_session"

// SessionHeader carries the session token for API clients
const SessionHeader = "X-Session-Token"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port            int
	Bind            string
	PageSize        int           // Default rows per page for GET /assets
	SecureCookies   bool          // Mark the session cookie Secure
	ShutdownTimeout time.Duration // Grace period for in-flight requests
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FilterRequest changes the filter field, the term, or both
type FilterRequest struct {
	Field *string `json:"field,omitempty"`
	Term  *string `json:"term,omitempty"`
}

// SortRequest toggles sorting on a field
type SortRequest struct {
	Field string `json:"field"`
}

// ViewResponse is one computed page together with the parameters that
// produced it
type ViewResponse struct {
	Rows          []record.Record `json:"rows"`
	TotalFiltered int             `json:"total_filtered"`
	TotalPages    int             `json:"total_pages"`
	HasNext       bool            `json:"has_next"`
	HasPrevious   bool            `json:"has_previous"`
	Params        query.Params    `json:"params"`
	Moved         *bool           `json:"moved,omitempty"`
}

// FieldInfo describes one recognized column
type FieldInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DatasetInfo describes the current dataset snapshot
type DatasetInfo struct {
	Source   string           `json:"source"`
	Records  int              `json:"records"`
	Warnings []record.Warning `json:"warnings"`
	LoadedAt *time.Time       `json:"loaded_at,omitempty"`
}

func newViewResponse(result query.Result) ViewResponse {
	rows := result.Rows
	if rows == nil {
		rows = []record.Record{}
	}
	return ViewResponse{
		Rows:          rows,
		TotalFiltered: result.TotalFiltered,
		TotalPages:    result.TotalPages,
		HasNext:       result.HasNext,
		HasPrevious:   result.HasPrevious,
		Params:        result.Params,
	}
}

func newDatasetInfo(snap *record.Snapshot) DatasetInfo {
	info := DatasetInfo{
		Source:   snap.Source,
		Records:  len(snap.Records),
		Warnings: snap.Warnings,
	}
	if info.Warnings == nil {
		info.Warnings = []record.Warning{}
	}
	if !snap.LoadedAt.IsZero() {
		loaded := snap.LoadedAt
		info.LoadedAt = &loaded
	}
	return info
}
