// Command sample demonstrates the github.com/bjaus/bind package with a
// small users API.
//
// Run:
//
//	go run ./cmd/sample
//
// Print the route table:
//
//	go run ./cmd/sample -routes
//
// Then explore:
//
//	GET    http://localhost:8080/routes                 route table
//	GET    http://localhost:8080/v1/health              health check
//	GET    http://localhost:8080/v1/users?role=admin    list users (query binding)
//	GET    http://localhost:8080/v1/users/by-id?ids=1,2 fetch users (sequence binding)
//	POST   http://localhost:8080/v1/users               create user (body binding)
//	DELETE http://localhost:8080/v1/users?id=1          delete user
//
// Configuration comes from the environment: SAMPLE_ADDR, SAMPLE_RATE,
// SAMPLE_BURST, SAMPLE_MAX_BODY_BYTES.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/bjaus/bind"
)

// Config is the sample server configuration, loaded from the environment.
type Config struct {
	Addr         string  `env:"ADDR" envDefault:":8080"`
	Rate         float64 `env:"RATE" envDefault:"50"`
	Burst        int     `env:"BURST" envDefault:"100"`
	MaxBodyBytes int64   `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

func main() {
	routesFlag := flag.Bool("routes", false, "Print the route table to stdout and exit")
	flag.Parse()

	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "SAMPLE_"})
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	r := newRouter(cfg)

	if *routesFlag {
		if err := r.WriteRoutes(os.Stdout); err != nil {
			slog.Error("route listing failed", "err", err)
			os.Exit(1)
		}
		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting server", "addr", cfg.Addr)

	if err := r.ListenAndServe(ctx, cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
	}

	slog.Info("server stopped")
}

func newRouter(cfg Config) *bind.Router {
	c := bind.NewConverter()

	r := bind.New(bind.WithConverter(c))

	// Global middleware.
	r.Use(bind.Recovery())
	r.Use(bind.RequestID())
	r.Use(bind.Logger(slog.Default()))
	r.Use(bind.RateLimit(bind.RateLimitConfig{Rate: cfg.Rate, Burst: cfg.Burst}))
	r.Use(bind.Timeout(30 * time.Second))

	r.ServeRoutes("/routes")

	v1 := r.Group("/v1")

	bind.Get(v1, "/health", handleHealth,
		bind.WithSummary("Health check"),
	)

	bind.Get(v1, "/users", handleListUsers,
		bind.WithSummary("List users, optionally filtered by role"),
	)
	bind.Get(v1, "/users/by-id", handleUsersByID,
		bind.WithSummary("Fetch users by a comma-separated list of IDs"),
	)
	bind.Post(v1, "/users", handleCreateUser,
		bind.WithStatus(http.StatusCreated),
		bind.WithSummary("Create a user"),
		bind.WithExtractor(bind.BodyExtractor(bind.BodyConfig{MaxBytes: cfg.MaxBodyBytes})),
	)
	bind.Delete(v1, "/users", handleDeleteUser,
		bind.WithSummary("Delete a user by ID"),
	)

	return r
}

// In-memory store
// ---------------------------------------------------------------------------

var store = &userStore{
	users: map[int]*User{
		1: {ID: 1, Name: "Alice", Email: "alice@example.com", Role: "admin", CreatedAt: time.Now()},
		2: {ID: 2, Name: "Bob", Email: "bob@example.com", Role: "member", CreatedAt: time.Now()},
	},
	nextID: 3,
}

type userStore struct {
	mu     sync.RWMutex
	users  map[int]*User
	nextID int
}

func (s *userStore) list(role string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *userStore) get(id int) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (s *userStore) create(name, email, role string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &User{
		ID:        s.nextID,
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.users[u.ID] = u
	cp := *u
	return &cp
}

func (s *userStore) delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

// Domain types
// ---------------------------------------------------------------------------

// User is the core domain entity.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Request / Response types
// ---------------------------------------------------------------------------

type HealthResp struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type ListUsersParams struct {
	Role  string `json:"role"`
	Limit int    `json:"limit"`
}

type ListUsersResp struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

type UsersByIDParams struct {
	IDs []int `json:"ids"`
}

type CreateUserParams struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate implements bind.SelfValidator.
func (p CreateUserParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return bind.Error(http.StatusBadRequest, "name is required")
	}
	if !strings.Contains(p.Email, "@") {
		return bind.Error(http.StatusBadRequest, "email must contain @")
	}
	return nil
}

type DeleteUserParams struct {
	ID int `json:"id"`
}

// Handlers
// ---------------------------------------------------------------------------

func handleHealth(_ *http.Request) (*HealthResp, error) {
	return &HealthResp{
		Status: "ok",
		Time:   time.Now(),
	}, nil
}

func handleListUsers(_ *http.Request, p ListUsersParams) (*ListUsersResp, error) {
	users := store.list(p.Role)
	total := len(users)

	if p.Limit > 0 && p.Limit < len(users) {
		users = users[:p.Limit]
	}

	return &ListUsersResp{
		Users: users,
		Total: total,
	}, nil
}

func handleUsersByID(_ *http.Request, p UsersByIDParams) (*ListUsersResp, error) {
	users := make([]User, 0, len(p.IDs))
	for _, id := range p.IDs {
		u, ok := store.get(id)
		if !ok {
			return nil, bind.Errorf(http.StatusNotFound, "user %d not found", id)
		}
		users = append(users, *u)
	}
	return &ListUsersResp{Users: users, Total: len(users)}, nil
}

func handleCreateUser(_ *http.Request, p CreateUserParams) (*User, error) {
	role := p.Role
	if role == "" {
		role = "member"
	}
	return store.create(p.Name, p.Email, role), nil
}

func handleDeleteUser(_ *http.Request, p DeleteUserParams) (*User, error) {
	u, ok := store.get(p.ID)
	if !ok {
		return nil, bind.Errorf(http.StatusNotFound, "user %d not found", p.ID)
	}
	store.delete(p.ID)
	return u, nil
}
