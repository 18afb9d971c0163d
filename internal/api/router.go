package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/oyilmaz/carmarket-backend/internal/api/httpx"
	"github.com/oyilmaz/carmarket-backend/internal/api/validate"
	"github.com/oyilmaz/carmarket-backend/internal/config"
	"github.com/oyilmaz/carmarket-backend/internal/metrics"
	"github.com/oyilmaz/carmarket-backend/internal/middleware"
	"github.com/oyilmaz/carmarket-backend/internal/models"
	"github.com/oyilmaz/carmarket-backend/internal/services"
)

// writeSvcError maps workflow error kinds to transport status codes.
func writeSvcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, services.ErrBadCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrVehicleSold), errors.Is(err, services.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

type vehicleReq struct {
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	PriceCents int64  `json:"price_cents"`
}

func (v vehicleReq) validate() validate.Errs {
	var errs validate.Errs
	if ef := validate.Required("brand", v.Brand); ef != nil {
		errs = append(errs, *ef)
	}
	if ef := validate.Required("model", v.Model); ef != nil {
		errs = append(errs, *ef)
	}
	if ef := validate.MinInt("year", int64(v.Year), 1900); ef != nil {
		errs = append(errs, *ef)
	}
	if ef := validate.MinInt("price_cents", v.PriceCents, 0); ef != nil {
		errs = append(errs, *ef)
	}
	return errs
}

func NewRouter(cfg config.Config, us *services.UserService, vs *services.VehicleService, ts *services.TransactionService, am *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- auth ----------
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Username, Email, Password string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "bad request", nil)
				return
			}
			u, err := us.Register(r.Context(), req.Username, req.Email, req.Password)
			if err != nil {
				writeSvcError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, u)
		})

		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Email, Password string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "bad request", nil)
				return
			}
			u, pair, err := us.Login(r.Context(), req.Email, req.Password)
			if err != nil {
				writeSvcError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"user_id":       u.ID,
				"username":      u.Username,
				"email":         u.Email,
				"role":          u.Role,
				"access_token":  pair.AccessToken,
				"refresh_token": pair.RefreshToken,
				"expires_at":    pair.ExpiresAt,
			})
		})

		r.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				RefreshToken string `json:"refresh_token"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
				httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "bad request", nil)
				return
			}
			pair, err := us.Refresh(req.RefreshToken)
			if err != nil {
				writeSvcError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, pair)
		})

		r.With(am.Auth, middleware.RequireRole(models.RoleAdmin)).
			Post("/auth/assign", func(w http.ResponseWriter, r *http.Request) {
				var req struct{ Email, Role string }
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "bad request", nil)
					return
				}
				if err := us.AssignRole(r.Context(), req.Email, req.Role); err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
			})

		// ---------- vehicles ----------
		r.Route("/vehicles", func(r chi.Router) {
			r.Use(am.Auth)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				vehicles, err := vs.List(r.Context())
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, vehicles)
			})

			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
				id, ok := pathID(r)
				if !ok {
					httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "invalid vehicle id", nil)
					return
				}
				v, err := vs.GetByID(r.Context(), id)
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, v)
			})

			r.Get("/search/brand/{brand}", func(w http.ResponseWriter, r *http.Request) {
				vehicles, err := vs.SearchByBrand(r.Context(), chi.URLParam(r, "brand"))
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, vehicles)
			})

			r.Get("/search/model/{model}", func(w http.ResponseWriter, r *http.Request) {
				vehicles, err := vs.SearchByModel(r.Context(), chi.URLParam(r, "model"))
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, vehicles)
			})

			r.Get("/search/year/{year}", func(w http.ResponseWriter, r *http.Request) {
				year, err := strconv.Atoi(chi.URLParam(r, "year"))
				if err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "invalid year", nil)
					return
				}
				vehicles, err := vs.SearchByYear(r.Context(), year)
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, vehicles)
			})

			r.With(middleware.RequireRole(models.RoleAdmin)).
				Post("/", func(w http.ResponseWriter, r *http.Request) {
					var req vehicleReq
					if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
						httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "bad request", nil)
						return
					}
					if errs := req.validate(); len(errs) > 0 {
						httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "validation failed", errs)
						return
					}
					v, err := vs.Add(r.Context(), models.Vehicle{
						Brand:      req.Brand,
						Model:      req.Model,
						Year:       req.Year,
						PriceCents: req.PriceCents,
					})
					if err != nil {
						writeSvcError(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusCreated, v)
				})

			r.With(middleware.RequireRole(models.RoleAdmin)).
				Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
					id, ok := pathID(r)
					if !ok {
						httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "invalid vehicle id", nil)
						return
					}
					var req vehicleReq
					if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
						httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "bad request", nil)
						return
					}
					if errs := req.validate(); len(errs) > 0 {
						httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "validation failed", errs)
						return
					}
					err := vs.Update(r.Context(), models.Vehicle{
						ID:         id,
						Brand:      req.Brand,
						Model:      req.Model,
						Year:       req.Year,
						PriceCents: req.PriceCents,
					})
					if err != nil {
						writeSvcError(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
				})

			r.With(middleware.RequireRole(models.RoleAdmin)).
				Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
					id, ok := pathID(r)
					if !ok {
						httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "invalid vehicle id", nil)
						return
					}
					if err := vs.Delete(r.Context(), id); err != nil {
						writeSvcError(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
				})
		})

		// ---------- transactions ----------
		r.Route("/transactions", func(r chi.Router) {
			r.Use(am.Auth)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				txs, err := ts.ListAll(r.Context())
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, txs)
			})

			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
				id, ok := pathID(r)
				if !ok {
					httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "invalid transaction id", nil)
					return
				}
				tx, err := ts.GetByID(r.Context(), id)
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, tx)
			})

			// sale: purchaser is the authenticated caller
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				u, _ := middleware.FromCtx(r.Context())
				var req struct {
					VehicleID   int64 `json:"vehicle_id"`
					AmountCents int64 `json:"amount_cents"`
				}
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "bad request", nil)
					return
				}
				tx, err := ts.CreateSale(r.Context(), req.VehicleID, u.UserID, req.AmountCents)
				if err != nil {
					writeSvcError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusCreated, tx)
			})
		})
	})

	return r
}
