package routes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

/* Loader holds the static route table
 * Starts with the built-in table; a routes.yaml file may replace it
 */

// Config represents the structure of routes.yaml
type Config struct {
	Routes []RouteConfig `yaml:"routes"`
}

// RouteConfig represents a single route in the YAML file
type RouteConfig struct {
	Service   string `yaml:"service"`
	Name      string `yaml:"name"`
	TargetURL string `yaml:"target_url"`
}

type Loader struct {
	mu     sync.RWMutex
	routes map[string]Route
	logger zerolog.Logger
}

// NewLoader creates a loader populated with Defaults
func NewLoader() *Loader {
	l := &Loader{logger: zerolog.Nop()}
	table, err := build(Defaults())
	if err != nil {
		panic(err)
	}
	l.routes = table
	return l
}

// WithLogger sets the logger used for hot reload reporting
func (l *Loader) WithLogger(logger zerolog.Logger) *Loader {
	l.logger = logger.With().Str("component", "routes").Logger()
	return l
}

// Load reads, validates and installs the routes file.
// On error the current table is left untouched.
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading routes file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing routes YAML: %w", err)
	}

	if len(config.Routes) == 0 {
		return fmt.Errorf("routes file %s defines no routes", filePath)
	}

	parsed := make([]Route, 0, len(config.Routes))
	for _, rc := range config.Routes {
		parsed = append(parsed, Route{
			Service:   rc.Service,
			Name:      rc.Name,
			TargetURL: rc.TargetURL,
		})
	}

	table, err := build(parsed)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.routes = table
	l.mu.Unlock()
	return nil
}

// Get retrieves a route by its service key
func (l *Loader) Get(service string) (Route, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	route, exists := l.routes[service]
	if !exists {
		return Route{}, fmt.Errorf("%w: %s", ErrNotFound, service)
	}
	return route, nil
}

// List returns all routes sorted by service key
func (l *Loader) List() []Route {
	l.mu.RLock()
	routes := make([]Route, 0, len(l.routes))
	for _, route := range l.routes {
		routes = append(routes, route)
	}
	l.mu.RUnlock()

	sort.Slice(routes, func(i, j int) bool { return routes[i].Service < routes[j].Service })
	return routes
}

// Exists checks if a service key is routed
func (l *Loader) Exists(service string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.routes[service]
	return exists
}

// Watch reloads filePath whenever it changes. Invalid files are logged and skipped.
// The parent directory is watched so files replaced by rename keep being followed.
// Call the returned stop function to clean up.
func (l *Loader) Watch(filePath string) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("routes watcher: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("routes watcher add %s: %w", dir, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !affects(ev, filePath) {
					continue
				}
				if err := l.Load(filePath); err != nil {
					l.logger.Warn().Err(err).Str("file", filePath).Msg("routes reload skipped")
					continue
				}
				l.logger.Info().Str("file", filePath).Int("routes", len(l.List())).Msg("routes reloaded")
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn().Err(err).Msg("routes watcher")
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// affects reports whether ev may have changed the contents behind filePath.
// Rename and Remove of the file itself are ignored; the Create that completes
// a replacement triggers the reload. Kubernetes ConfigMap volumes swap the
// ..data symlink instead of touching the file.
func affects(ev fsnotify.Event, filePath string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if filepath.Clean(ev.Name) == filepath.Clean(filePath) {
		return true
	}
	return ev.Has(fsnotify.Create) && filepath.Base(ev.Name) == "..data"
}

func build(routes []Route) (map[string]Route, error) {
	table := make(map[string]Route, len(routes))
	for _, route := range routes {
		if err := route.Validate(); err != nil {
			return nil, fmt.Errorf("validating route: %w", err)
		}
		if _, dup := table[route.Service]; dup {
			return nil, fmt.Errorf("validating route: duplicate service %s", route.Service)
		}
		table[route.Service] = route
	}
	return table, nil
}
