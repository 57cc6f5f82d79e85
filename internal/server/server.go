package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/handler"
	"github.com/vietnoy/pantry/internal/mailer"
	"github.com/vietnoy/pantry/internal/middleware"
	"github.com/vietnoy/pantry/internal/storage"
	"github.com/vietnoy/pantry/internal/store"
	ws "github.com/vietnoy/pantry/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	userH       *handler.UserHandler
	groupH      *handler.GroupHandler
	categoryH   *handler.CategoryHandler
	unitH       *handler.UnitHandler
	foodH       *handler.FoodHandler
	fridgeH     *handler.FridgeHandler
	shoppingH   *handler.ShoppingHandler
	mealPlanH   *handler.MealPlanHandler
	recipeH     *handler.RecipeHandler
	analyticsH  *handler.AnalyticsHandler
	userStore   *store.UserStore
	groupStore  *store.GroupStore
	tokens      *auth.TokenIssuer
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, tokens *auth.TokenIssuer, mail *mailer.Mailer, uploader *storage.Uploader, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	groupStore := store.NewGroupStore(db)
	verificationStore := store.NewVerificationStore(db)
	categoryStore := store.NewCategoryStore(db)
	unitStore := store.NewUnitStore(db)
	foodStore := store.NewFoodStore(db)
	fridgeStore := store.NewFridgeStore(db)
	shoppingStore := store.NewShoppingStore(db)
	mealPlanStore := store.NewMealPlanStore(db)
	recipeStore := store.NewRecipeStore(db)
	analyticsStore := store.NewAnalyticsStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(userStore, verificationStore, tokens, mail, logger.With("component", "auth")),
		userH:       handler.NewUserHandler(userStore, uploader),
		groupH:      handler.NewGroupHandler(groupStore, hub),
		categoryH:   handler.NewCategoryHandler(categoryStore),
		unitH:       handler.NewUnitHandler(unitStore),
		foodH:       handler.NewFoodHandler(foodStore, categoryStore, unitStore, uploader, hub),
		fridgeH:     handler.NewFridgeHandler(fridgeStore, foodStore, unitStore, hub),
		shoppingH:   handler.NewShoppingHandler(shoppingStore, foodStore, groupStore, hub),
		mealPlanH:   handler.NewMealPlanHandler(mealPlanStore, foodStore, unitStore, hub),
		recipeH:     handler.NewRecipeHandler(recipeStore, foodStore, uploader, hub),
		analyticsH:  handler.NewAnalyticsHandler(analyticsStore),
		userStore:   userStore,
		groupStore:  groupStore,
		tokens:      tokens,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/v1/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/v1/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/v1/auth/verify", s.authH.VerifyEmail)
	outerMux.HandleFunc("POST /api/v1/auth/resend-code", s.rateLimitedHandler(s.authH.ResendCode))
	outerMux.HandleFunc("POST /api/v1/auth/refresh", s.authH.Refresh)
	outerMux.HandleFunc("POST /api/v1/auth/forgot-password", s.rateLimitedHandler(s.authH.ForgotPassword))
	outerMux.HandleFunc("POST /api/v1/auth/reset-password", s.authH.ResetPassword)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens, s.userStore, s.groupStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Profile routes
	mux.HandleFunc("GET /api/v1/users/me", s.userH.Me)
	mux.HandleFunc("PUT /api/v1/users/me", s.userH.UpdateProfile)
	mux.HandleFunc("PUT /api/v1/users/me/password", s.userH.ChangePassword)
	mux.HandleFunc("POST /api/v1/users/me/avatar", s.userH.UploadAvatar)

	// Group routes
	mux.HandleFunc("POST /api/v1/groups", s.groupH.Create)
	mux.HandleFunc("GET /api/v1/groups", s.groupH.ListMine)
	mux.HandleFunc("GET /api/v1/groups/current", s.groupH.Current)
	mux.HandleFunc("PUT /api/v1/groups/current", s.groupH.Update)
	mux.HandleFunc("POST /api/v1/groups/join", s.groupH.Join)
	mux.HandleFunc("GET /api/v1/groups/members", s.groupH.Members)
	mux.HandleFunc("DELETE /api/v1/groups/members/{id}", s.groupH.RemoveMember)
	mux.HandleFunc("POST /api/v1/groups/leave", s.groupH.Leave)

	// Category routes
	mux.HandleFunc("POST /api/v1/categories", s.categoryH.Create)
	mux.HandleFunc("GET /api/v1/categories", s.categoryH.List)
	mux.HandleFunc("PUT /api/v1/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/v1/categories/{id}", s.categoryH.Delete)

	// Unit routes
	mux.HandleFunc("POST /api/v1/units", s.unitH.Create)
	mux.HandleFunc("GET /api/v1/units", s.unitH.List)
	mux.HandleFunc("PUT /api/v1/units/{id}", s.unitH.Update)
	mux.HandleFunc("DELETE /api/v1/units/{id}", s.unitH.Delete)

	// Food catalog routes
	mux.HandleFunc("POST /api/v1/foods", s.foodH.Create)
	mux.HandleFunc("GET /api/v1/foods", s.foodH.List)
	mux.HandleFunc("GET /api/v1/foods/{id}", s.foodH.Get)
	mux.HandleFunc("PUT /api/v1/foods/{id}", s.foodH.Update)
	mux.HandleFunc("DELETE /api/v1/foods/{id}", s.foodH.Delete)
	mux.HandleFunc("POST /api/v1/foods/{id}/image", s.foodH.UploadImage)

	// Fridge routes
	mux.HandleFunc("POST /api/v1/fridge", s.fridgeH.Create)
	mux.HandleFunc("GET /api/v1/fridge", s.fridgeH.List)
	mux.HandleFunc("GET /api/v1/fridge/{id}", s.fridgeH.Get)
	mux.HandleFunc("PUT /api/v1/fridge/{id}", s.fridgeH.Update)
	mux.HandleFunc("POST /api/v1/fridge/{id}/open", s.fridgeH.MarkOpened)
	mux.HandleFunc("DELETE /api/v1/fridge/{id}", s.fridgeH.Delete)

	// Shopping list routes
	mux.HandleFunc("POST /api/v1/shopping-lists", s.shoppingH.CreateList)
	mux.HandleFunc("GET /api/v1/shopping-lists", s.shoppingH.ListLists)
	mux.HandleFunc("GET /api/v1/shopping-lists/{id}", s.shoppingH.GetList)
	mux.HandleFunc("PUT /api/v1/shopping-lists/{id}", s.shoppingH.UpdateList)
	mux.HandleFunc("DELETE /api/v1/shopping-lists/{id}", s.shoppingH.DeleteList)

	// Shopping task routes
	mux.HandleFunc("POST /api/v1/shopping-lists/{id}/tasks", s.shoppingH.CreateTasks)
	mux.HandleFunc("PUT /api/v1/shopping-lists/{id}/tasks/{taskID}", s.shoppingH.UpdateTask)
	mux.HandleFunc("POST /api/v1/shopping-lists/{id}/tasks/{taskID}/done", s.shoppingH.SetTaskDone)
	mux.HandleFunc("DELETE /api/v1/shopping-lists/{id}/tasks/{taskID}", s.shoppingH.DeleteTask)

	// Meal plan routes
	mux.HandleFunc("POST /api/v1/meal-plans", s.mealPlanH.Create)
	mux.HandleFunc("GET /api/v1/meal-plans", s.mealPlanH.List)
	mux.HandleFunc("GET /api/v1/meal-plans/{id}", s.mealPlanH.Get)
	mux.HandleFunc("PUT /api/v1/meal-plans/{id}", s.mealPlanH.Update)
	mux.HandleFunc("POST /api/v1/meal-plans/{id}/prepared", s.mealPlanH.SetPrepared)
	mux.HandleFunc("DELETE /api/v1/meal-plans/{id}", s.mealPlanH.Delete)

	// Recipe routes
	mux.HandleFunc("POST /api/v1/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/v1/recipes", s.recipeH.List)
	mux.HandleFunc("GET /api/v1/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/v1/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/v1/recipes/{id}", s.recipeH.Delete)
	mux.HandleFunc("POST /api/v1/recipes/{id}/image", s.recipeH.UploadImage)

	// Analytics routes
	mux.HandleFunc("GET /api/v1/analytics/monthly", s.analyticsH.Monthly)
	mux.HandleFunc("GET /api/v1/analytics/categories", s.analyticsH.Categories)
	mux.HandleFunc("GET /api/v1/analytics/summary", s.analyticsH.Summary)

	// WebSocket
	mux.HandleFunc("GET /api/v1/ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
