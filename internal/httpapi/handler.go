package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/fixtures"
	"github.com/spigell/profile-optimizer/internal/logger"
	"github.com/spigell/profile-optimizer/internal/pipeline"
)

const (
	FunctionName   = "OptimizeProfile"
	DefaultCountry = "MY"

	msgNoParameters = "No parameters found"
	msgNoData       = "No data returned"
	msgNoSuggestion = "Failed to get suggestions"
)

// Optimizer is the part of the pipeline served over HTTP.
type Optimizer interface {
	Custom(ctx context.Context, simple dating.SimpleProfile, country string) (*pipeline.Payload, error)
	Suggest(ctx context.Context, payload *pipeline.Payload, style ai.MatchStyle) (*dating.SuggestionSet, error)
}

type Config struct {
	// DefaultCountry is used when a request has no country.
	DefaultCountry string `mapstructure:"default-country"`
}

type optimizeRequest struct {
	Profile map[string]any `json:"profile" validate:"required"`
	Country string         `json:"country" validate:"omitempty,len=2,alpha"`
	Style   string         `json:"style" validate:"omitempty,oneof=potential teenager senior_citizen businessman"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	optimizer      Optimizer
	validate       *validator.Validate
	defaultCountry string
	logger         *zap.Logger
	handler        http.Handler
}

func New(optimizer Optimizer, cfg Config, log *zap.Logger) *Handler {
	country := strings.ToUpper(strings.TrimSpace(cfg.DefaultCountry))
	if country == "" {
		country = DefaultCountry
	}

	h := &Handler{
		optimizer:      optimizer,
		validate:       validator.New(),
		defaultCountry: country,
		logger:         logger.OrNop(log),
	}

	router := httprouter.New()
	router.GET("/*path", h.Optimize)
	router.POST("/*path", h.Optimize)
	router.HandleOPTIONS = false
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"}, h.logger)
	})

	h.handler = RequestLogging(h.logger)(Recovery(h.logger)(CORS(router)))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// Register exposes the handler through the functions framework.
func Register(h *Handler) {
	functions.HTTP(FunctionName, h.ServeHTTP)
}

// Optimize answers a custom profile with suggestions.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, simple, ok := h.decode(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgNoParameters}, h.logger)
		return
	}

	country := req.Country
	if country == "" {
		country = h.defaultCountry
	}
	style := ai.ParseStyle(req.Style)

	log := h.logger.With(zap.String("request_id", requestID(r)))
	log = log.With(logger.RequestFields(string(style), country)...)

	payload, err := h.optimizer.Custom(r.Context(), simple, country)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoData) || errors.Is(err, fixtures.ErrNotFound) {
			log.Warn("no data for request", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgNoData}, log)
			return
		}
		log.Error("preparing payload", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"}, log)
		return
	}

	if payload.Bio() == "" {
		log.Info("profile has no bio, returning canned suggestions")
		writeJSON(w, http.StatusOK, CannedSuggestions(), log)
		return
	}

	set, err := h.optimizer.Suggest(r.Context(), payload, style)
	if err != nil {
		log.Error("getting suggestions", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgNoSuggestion}, log)
		return
	}

	writeJSON(w, http.StatusOK, set, log)
}

func (h *Handler) decode(r *http.Request) (*optimizeRequest, dating.SimpleProfile, bool) {
	var req optimizeRequest
	if r.Body == nil {
		return nil, dating.SimpleProfile{}, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("decoding request body", zap.Error(err))
		return nil, dating.SimpleProfile{}, false
	}

	if err := h.validate.Struct(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				h.logger.Debug("invalid request field",
					zap.String("field", fieldErr.Field()),
					zap.String("tag", fieldErr.Tag()),
				)
			}
		}
		return nil, dating.SimpleProfile{}, false
	}

	simple, err := dating.DecodeSimpleProfile(req.Profile)
	if err != nil {
		h.logger.Debug("decoding profile", zap.Error(err))
		return nil, dating.SimpleProfile{}, false
	}

	return &req, simple, true
}

func writeJSON(w http.ResponseWriter, statusCode int, data any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to write JSON response", zap.Int("status", statusCode), zap.Error(err))
	}
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
