package engagetest

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"sync"

	"github.com/gorilla/mux"
)

// PathPrefix is the path under which actions are served.
const PathPrefix = "/api/v2/"

// Engage error codes returned by the fake.
const (
	codeMissingParameter = 0
	codeInvalidParameter = 1
	codeDataNotFound     = 2
	codeMappingExists    = 5
)

// Request is a recorded API request
type Request struct {
	Action string
	Form   url.Values
	Header http.Header
}

type scripted struct {
	status int
	body   string
}

// Server is a fake Engage API
type Server struct {
	// URL is the base URL to hand to the client, with trailing slash
	URL string

	apiKey string
	srv    *httptest.Server

	mu        sync.Mutex
	requests  []Request
	overrides map[string]scripted
	mappings  map[string][]string // primary key -> identifiers
	profiles  map[string]map[string]any
	contacts  map[string][]map[string]any
}

// NewServer starts a fake accepting apiKey
func NewServer(apiKey string) *Server {
	s := &Server{
		apiKey:    apiKey,
		overrides: make(map[string]scripted),
		mappings:  make(map[string][]string),
		profiles:  make(map[string]map[string]any),
		contacts:  make(map[string][]map[string]any),
	}

	r := mux.NewRouter()
	r.HandleFunc(PathPrefix+"{action}", s.handle).Methods(http.MethodPost)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL + PathPrefix
	return s
}

// Close shuts the server down
func (s *Server) Close() {
	s.srv.Close()
}

// Respond makes every call to action answer with status and body
func (s *Server) Respond(action string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[action] = scripted{status: status, body: body}
}

// Reset removes a scripted response set with Respond
func (s *Server) Reset(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, action)
}

// AddProfile registers the profile returned by auth_info for token
func (s *Server) AddProfile(token string, profile map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[token] = profile
}

// AddContacts registers the contacts returned by get_contacts for identifier
func (s *Server) AddContacts(identifier string, contacts ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[identifier] = append(s.contacts[identifier], contacts...)
}

// Requests returns a copy of every recorded request
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// ClearRequests forgets every recorded request
func (s *Server) ClearRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// LastRequest returns the most recent request
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Mappings returns a copy of the mapping store
func (s *Server) Mappings() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.mappings))
	for pk, ids := range s.mappings {
		out[pk] = slices.Clone(ids)
	}
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		Action: action,
		Form:   maps.Clone(r.PostForm),
		Header: r.Header.Clone(),
	})

	if o, ok := s.overrides[action]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(o.status)
		fmt.Fprint(w, o.body)
		return
	}

	form := r.PostForm
	switch key := form.Get("apiKey"); {
	case key == "":
		writeFail(w, codeMissingParameter, "Missing parameter: apiKey")
		return
	case key != s.apiKey:
		writeFail(w, codeInvalidParameter, "Invalid parameter: apiKey")
		return
	}
	if form.Get("format") != "json" {
		writeFail(w, codeInvalidParameter, "Invalid parameter: format")
		return
	}

	switch action {
	case "auth_info":
		s.authInfo(w, form)
	case "map":
		s.mapIdentifier(w, form)
	case "unmap":
		s.unmap(w, form)
	case "mappings":
		s.listMappings(w, form)
	case "all_mappings":
		writeOK(w, map[string]any{"mappings": s.mappings})
	case "get_contacts":
		s.getContacts(w, form)
	default:
		writeFail(w, codeInvalidParameter, "Unknown action: "+action)
	}
}

func (s *Server) authInfo(w http.ResponseWriter, form url.Values) {
	token, ok := require(w, form, "token")
	if !ok {
		return
	}
	profile, ok := s.profiles[token]
	if !ok {
		writeFail(w, codeDataNotFound, "Data not found")
		return
	}

	profile = maps.Clone(profile)
	identifier, _ := profile["identifier"].(string)
	for pk, ids := range s.mappings {
		if slices.Contains(ids, identifier) {
			profile["primaryKey"] = pk
		}
	}

	payload := map[string]any{"profile": profile}
	if form.Get("extended") == "true" {
		payload["merged_poco"] = map[string]any{}
	}
	writeOK(w, payload)
}

func (s *Server) mapIdentifier(w http.ResponseWriter, form url.Values) {
	identifier, ok := require(w, form, "identifier")
	if !ok {
		return
	}
	primaryKey, ok := require(w, form, "primaryKey")
	if !ok {
		return
	}

	for pk, ids := range s.mappings {
		if pk == primaryKey || !slices.Contains(ids, identifier) {
			continue
		}
		if form.Get("overwrite") == "false" {
			writeFail(w, codeMappingExists, "Mapping exists")
			return
		}
		s.removeIdentifier(pk, identifier)
	}

	if !slices.Contains(s.mappings[primaryKey], identifier) {
		s.mappings[primaryKey] = append(s.mappings[primaryKey], identifier)
	}
	writeOK(w, nil)
}

func (s *Server) unmap(w http.ResponseWriter, form url.Values) {
	primaryKey, ok := require(w, form, "primaryKey")
	if !ok {
		return
	}

	if form.Get("all_identifiers") == "true" {
		delete(s.mappings, primaryKey)
		writeOK(w, nil)
		return
	}

	identifier, ok := require(w, form, "identifier")
	if !ok {
		return
	}
	if !slices.Contains(s.mappings[primaryKey], identifier) {
		writeFail(w, codeDataNotFound, "Data not found")
		return
	}
	s.removeIdentifier(primaryKey, identifier)
	writeOK(w, nil)
}

func (s *Server) listMappings(w http.ResponseWriter, form url.Values) {
	primaryKey, ok := require(w, form, "primaryKey")
	if !ok {
		return
	}
	identifiers := s.mappings[primaryKey]
	if identifiers == nil {
		identifiers = []string{}
	}
	writeOK(w, map[string]any{"identifiers": identifiers})
}

func (s *Server) getContacts(w http.ResponseWriter, form url.Values) {
	identifier, ok := require(w, form, "identifier")
	if !ok {
		return
	}
	entries, ok := s.contacts[identifier]
	if !ok {
		writeFail(w, codeDataNotFound, "Data not found")
		return
	}
	writeOK(w, map[string]any{
		"response": map[string]any{
			"entry":        entries,
			"itemsPerPage": len(entries),
			"startIndex":   1,
			"totalResults": len(entries),
		},
	})
}

func (s *Server) removeIdentifier(primaryKey, identifier string) {
	ids := slices.DeleteFunc(s.mappings[primaryKey], func(id string) bool { return id == identifier })
	if len(ids) == 0 {
		delete(s.mappings, primaryKey)
		return
	}
	s.mappings[primaryKey] = ids
}

func require(w http.ResponseWriter, form url.Values, key string) (string, bool) {
	v := form.Get(key)
	if v == "" {
		writeFail(w, codeMissingParameter, "Missing parameter: "+key)
		return "", false
	}
	return v, true
}

func writeOK(w http.ResponseWriter, fields map[string]any) {
	payload := map[string]any{"stat": "ok"}
	maps.Copy(payload, fields)
	writeJSON(w, payload)
}

func writeFail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, map[string]any{
		"stat": "fail",
		"err":  map[string]any{"code": code, "msg": msg},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
