package main

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/middleware"
	"github.com/reoring/goserde/serializers"
)

// User represents a user in our system
type User struct {
	ID     int
	Name   string
	Email  string
	Age    int
	Active bool
}

func userSerializer() goserde.Serializer[User] {
	b := serializers.Object[User]("User")
	serializers.OptionalField(b, "id", serializers.Int(), func(u *User) int { return u.ID }, func(u *User, v int) { u.ID = v }, 0)
	serializers.Field(b, "name", serializers.String(), func(u *User) string { return u.Name }, func(u *User, v string) { u.Name = v })
	serializers.Field(b, "email", serializers.String(), func(u *User) string { return u.Email }, func(u *User, v string) { u.Email = v })
	serializers.OptionalField(b, "age", serializers.Int(), func(u *User) int { return u.Age }, func(u *User, v int) { u.Age = v }, 0)
	serializers.OptionalField(b, "active", serializers.Bool(), func(u *User) bool { return u.Active }, func(u *User, v bool) { u.Active = v }, true)
	return b.MustBuild()
}

// UserStore is a simple in-memory store
type UserStore struct {
	mu     sync.RWMutex
	users  *serializers.OrderedMap[int, User]
	nextID int
}

func NewUserStore() *UserStore {
	return &UserStore{users: serializers.NewOrderedMap[int, User](), nextID: 1}
}

func (s *UserStore) Create(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	s.users.Set(u.ID, u)
	return u
}

func (s *UserStore) Get(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.Get(id)
}

func (s *UserStore) Put(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.Set(u.ID, u)
}

func (s *UserStore) All() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, s.users.Len())
	for _, u := range s.users.All() {
		out = append(out, u)
	}
	return out
}

type server struct {
	store *UserStore
	user  goserde.Serializer[User]
	users goserde.Serializer[[]User]
	f     middleware.Formats
}

func (srv *server) list(w http.ResponseWriter, r *http.Request) {
	if err := middleware.Encode(w, r, http.StatusOK, srv.users, srv.store.All(), srv.f); err != nil {
		middleware.WriteError(w, err)
	}
}

func (srv *server) create(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.DecodedFromContext[User](r.Context())
	if err := middleware.Encode(w, r, http.StatusCreated, srv.user, srv.store.Create(u), srv.f); err != nil {
		middleware.WriteError(w, err)
	}
}

// patch merges the body into the stored user; absent members keep their
// value.
func (srv *server) patch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	old, ok := srv.store.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	u, err := middleware.Update(r, srv.user, old, srv.f)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	u.ID = id
	srv.store.Put(u)
	if err := middleware.Encode(w, r, http.StatusOK, srv.user, u, srv.f); err != nil {
		middleware.WriteError(w, err)
	}
}

func main() {
	u := userSerializer()
	srv := &server{store: NewUserStore(), user: u, users: serializers.List(u), f: middleware.DefaultFormats()}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", srv.list)
	mux.Handle("POST /users", middleware.Bind(u, srv.f, http.HandlerFunc(srv.create)))
	mux.HandleFunc("PATCH /users/{id}", srv.patch)

	log.Println("listening on :8080 (application/json or application/cbor)")
	log.Fatal(http.ListenAndServe(":8080", mux))
}
