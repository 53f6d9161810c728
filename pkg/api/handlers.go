package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/record"
	"github.com/ssargent/assetview/pkg/session"
	"github.com/ssargent/assetview/pkg/view"
)

// Dependencies are the collaborators a Server works with
type Dependencies struct {
	Records  *record.Store
	Engine   *query.Engine
	Sessions *session.Manager
	Source   record.Source
	Logger   *slog.Logger
}

// Server holds the API server state
type Server struct {
	records  *record.Store
	engine   *query.Engine
	sessions *session.Manager
	source   record.Source
	config   ServerConfig
	metrics  *Metrics
	logger   *slog.Logger
}

// NewServer creates a new API server
func NewServer(deps Dependencies, config ServerConfig, metrics *Metrics) *Server {
	engine := deps.Engine
	if engine == nil {
		engine = query.NewEngine(query.Options{})
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{
		records:  deps.Records,
		engine:   engine,
		sessions: deps.Sessions,
		source:   deps.Source,
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]interface{}{
		"status":  "healthy",
		"records": len(s.records.Records()),
	})
}

// handleLogin godoc
//
//	@Summary		Log in
//	@Description	Check the credentials and start a session. The token is returned and set as a cookie.
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Router			/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Login(req.Email, req.Password)
	if err != nil {
		s.metrics.RecordAuthRequest("login", false)
		if errors.Is(err, session.ErrInvalidCredentials) {
			s.logger.Warn("login rejected", "email", req.Email)
			sendError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		s.logger.Error("login failed", "error", err)
		sendError(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordAuthRequest("login", true)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	sendSuccess(w, LoginResponse{
		Token:     sess.ID,
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt,
	})
}

// handleLogout godoc
//
//	@Summary		Log out
//	@Description	End the current session
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := s.sessions.Logout(sess.ID); err != nil {
		s.logger.Error("logout failed", "error", err)
		sendError(w, "Failed to end session", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	sendSuccess(w, map[string]string{"status": "logged out"})
}

// handleAssets godoc
//
//	@Summary		Query assets
//	@Description	Filter, sort and paginate the dataset without touching the session view
//	@Tags			assets
//	@Produce		json
//	@Param			search_by	query		string	false	"Field to filter on (default Ticker)"
//	@Param			q			query		string	false	"Case-insensitive substring to match"
//	@Param			sort_by		query		string	false	"Field to sort on (default Ticker)"
//	@Param			order		query		string	false	"asc or desc"
//	@Param			page		query		int		false	"1-based page number"
//	@Param			page_size	query		int		false	"Rows per page"
//	@Success		200			{object}	ViewResponse
//	@Failure		400			{object}	map[string]string
//	@Failure		401			{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/assets [get]
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	params, err := paramsFromQuery(r.URL.Query(), s.config.PageSize)
	if err != nil {
		s.sendViewError(w, err)
		return
	}

	start := time.Now()
	result, err := s.engine.Compute(s.records.Records(), params)
	s.metrics.RecordViewCompute("query", err == nil, time.Since(start))
	if err != nil {
		s.sendViewError(w, err)
		return
	}
	sendSuccess(w, newViewResponse(result))
}

// handleGetView godoc
//
//	@Summary		Current view
//	@Description	Compute the page described by the session's saved view parameters
//	@Tags			view
//	@Produce		json
//	@Success		200	{object}	ViewResponse
//	@Failure		401	{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/view [get]
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	s.runIntent(w, r, "view", func(c *view.Controller) (*bool, error) {
		return nil, nil
	})
}

// handleFilter godoc
//
//	@Summary		Change the filter
//	@Description	Set the filter field, the term, or both. The view returns to the first page.
//	@Tags			view
//	@Accept			json
//	@Produce		json
//	@Param			body	body		FilterRequest	true	"Filter change"
//	@Success		200		{object}	ViewResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/view/filter [post]
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	var field record.Field
	if req.Field != nil {
		parsed, err := record.ParseField(*req.Field)
		if err != nil {
			s.sendViewError(w, err)
			return
		}
		field = parsed
	}

	s.runIntent(w, r, "filter", func(c *view.Controller) (*bool, error) {
		if req.Field != nil {
			if err := c.SetFilterField(field); err != nil {
				return nil, err
			}
		}
		if req.Term != nil {
			if err := c.SetFilterTerm(*req.Term); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

// handleSort godoc
//
//	@Summary		Toggle sorting
//	@Description	Sort ascending on a new field, or flip the direction when the field is already sorted on
//	@Tags			view
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SortRequest	true	"Field to sort on"
//	@Success		200		{object}	ViewResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/view/sort [post]
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	field, err := record.ParseField(req.Field)
	if err != nil {
		s.sendViewError(w, err)
		return
	}

	s.runIntent(w, r, "sort", func(c *view.Controller) (*bool, error) {
		return nil, c.ToggleSort(field)
	})
}

// handleNextPage godoc
//
//	@Summary		Next page
//	@Description	Advance one page. moved is false when already on the last page.
//	@Tags			view
//	@Produce		json
//	@Success		200	{object}	ViewResponse
//	@Failure		401	{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/view/next [post]
func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	s.runIntent(w, r, "next", func(c *view.Controller) (*bool, error) {
		moved, err := c.NextPage()
		return &moved, err
	})
}

// handlePreviousPage godoc
//
//	@Summary		Previous page
//	@Description	Go back one page. moved is false when already on the first page.
//	@Tags			view
//	@Produce		json
//	@Success		200	{object}	ViewResponse
//	@Failure		401	{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/view/previous [post]
func (s *Server) handlePreviousPage(w http.ResponseWriter, r *http.Request) {
	s.runIntent(w, r, "previous", func(c *view.Controller) (*bool, error) {
		moved, err := c.PreviousPage()
		return &moved, err
	})
}

// handleFields godoc
//
//	@Summary		List fields
//	@Description	List the recognized columns in display order
//	@Tags			assets
//	@Produce		json
//	@Success		200	{array}		FieldInfo
//	@Failure		401	{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/fields [get]
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := record.Fields()
	infos := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		infos = append(infos, FieldInfo{Key: f.Key(), Label: f.Label()})
	}
	sendSuccess(w, infos)
}

// handleDataset godoc
//
//	@Summary		Dataset status
//	@Description	Describe the current dataset snapshot
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{object}	DatasetInfo
//	@Failure		401	{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/dataset [get]
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, newDatasetInfo(s.records.Snapshot()))
}

// handleReload godoc
//
//	@Summary		Reload the dataset
//	@Description	Fetch and ingest the configured dataset source. On failure the previous dataset stays in place.
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{object}	DatasetInfo
//	@Failure		401	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Failure		502	{object}	map[string]string
//	@Security		SessionAuth
//	@Router			/dataset/reload [post]
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		sendError(w, "No dataset source configured", http.StatusInternalServerError)
		return
	}

	snap, err := s.loadDataset(r.Context())
	if err != nil {
		var parseErr *record.ParseError
		if errors.As(err, &parseErr) {
			sendError(w, parseErr.Error(), http.StatusInternalServerError)
			return
		}
		sendError(w, "Failed to fetch dataset: "+err.Error(), http.StatusBadGateway)
		return
	}
	sendSuccess(w, newDatasetInfo(snap))
}

func (s *Server) loadDataset(ctx context.Context) (*record.Snapshot, error) {
	start := time.Now()
	snap, err := s.records.Load(ctx, s.source)
	if err != nil {
		s.metrics.RecordIngest(false, 0, 0, time.Since(start))
		return nil, err
	}
	s.metrics.RecordIngest(true, len(snap.Records), len(snap.Warnings), time.Since(start))
	return snap, nil
}

// runIntent restores the session's controller, applies intent and saves
// the resulting parameters back to the session
func (s *Server) runIntent(w http.ResponseWriter, r *http.Request, operation string, intent func(*view.Controller) (*bool, error)) {
	sess := sessionFromContext(r.Context())

	start := time.Now()
	c, err := s.controllerFor(sess)
	var moved *bool
	if err == nil {
		moved, err = intent(c)
	}
	s.metrics.RecordViewCompute(operation, err == nil, time.Since(start))
	if err != nil {
		s.sendViewError(w, err)
		return
	}

	if err := s.sessions.SaveView(sess.ID, c.Params()); err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			sendError(w, "Invalid session", http.StatusUnauthorized)
			return
		}
		s.logger.Error("failed to save view", "error", err)
		sendError(w, "Failed to save view", http.StatusInternalServerError)
		return
	}

	resp := newViewResponse(c.Result())
	resp.Moved = moved
	sendSuccess(w, resp)
}

// controllerFor builds a controller from the session's saved view. Saved
// parameters the engine rejects are replaced by the defaults.
func (s *Server) controllerFor(sess *session.Session) (*view.Controller, error) {
	c, err := view.NewController(s.records, s.engine, view.WithParams(sess.View))
	if err != nil && errors.Is(err, query.ErrInvalidParameter) {
		s.logger.Warn("discarding saved view", "error", err)
		return view.NewController(s.records, s.engine, view.WithPageSize(sess.View.PageSize))
	}
	return c, err
}

func (s *Server) sendViewError(w http.ResponseWriter, err error) {
	if errors.Is(err, query.ErrInvalidParameter) || errors.Is(err, record.ErrUnknownField) {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Error("view computation failed", "error", err)
	sendError(w, "Failed to compute view", http.StatusInternalServerError)
}

// paramsFromQuery reads view parameters from the query string of
// GET /assets. Missing values take the defaults.
func paramsFromQuery(values url.Values, pageSize int) (query.Params, error) {
	params := query.DefaultParams()
	if pageSize > 0 {
		params.PageSize = pageSize
	}

	if v := values.Get("search_by"); v != "" {
		field, err := record.ParseField(v)
		if err != nil {
			return params, &query.InvalidParameterError{Param: "search_by", Value: v}
		}
		params.FilterField = field
	}
	params.FilterTerm = values.Get("q")

	if v := values.Get("sort_by"); v != "" {
		field, err := record.ParseField(v)
		if err != nil {
			return params, &query.InvalidParameterError{Param: "sort_by", Value: v}
		}
		params.SortField = field
	}

	if v := values.Get("order"); v != "" {
		direction, err := query.ParseDirection(v)
		if err != nil {
			return params, &query.InvalidParameterError{Param: "order", Value: v}
		}
		params.SortDirection = direction
	}

	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return params, &query.InvalidParameterError{Param: "page", Value: v}
		}
		params.PageNumber = page
	}

	if v := values.Get("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return params, &query.InvalidParameterError{Param: "page_size", Value: v}
		}
		params.PageSize = size
	}

	return params, nil
}
