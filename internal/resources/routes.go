package resources

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// RouteGroup is the urlkit group holding every admin API route.
const RouteGroup = "api"

const (
	routeList   = "list"
	routeItem   = "item"
	routeUpload = "upload"
)

var ErrRouteManagerRequired = errors.New("resources: route manager not configured")

// RouteName returns the urlkit route name for resource and kind, e.g.
// "files.item".
func RouteName(resource, kind string) string {
	return resource + "." + kind
}

// DefaultRouteConfig lays out the admin API under baseURL: a list route at
// /<resource>, an item route at /<resource>/:id and, for resources that
// accept uploads, /<resource>/upload.
func DefaultRouteConfig(baseURL string) *urlkit.Config {
	paths := make(map[string]string)
	for _, resource := range Names() {
		paths[RouteName(resource, routeList)] = "/" + resource
		if resource == ResourceAudit {
			continue
		}
		paths[RouteName(resource, routeItem)] = "/" + resource + "/:id"
		if acceptsUploads(resource) {
			paths[RouteName(resource, routeUpload)] = "/" + resource + "/upload"
		}
	}
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    RouteGroup,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths:   paths,
			},
		},
	}
}

// Routes builds endpoint URLs from a go-urlkit route manager.
type Routes struct {
	manager *urlkit.RouteManager
	group   *urlkit.Group
}

// NewRoutes builds a route table from cfg.
func NewRoutes(cfg *urlkit.Config) (*Routes, error) {
	if cfg == nil {
		return nil, ErrRouteManagerRequired
	}
	manager := urlkit.NewRouteManager(cfg)
	group, err := lookupGroup(manager, RouteGroup)
	if err != nil {
		return nil, err
	}
	return &Routes{manager: manager, group: group}, nil
}

// List returns the collection URL with params encoded as query values.
func (r *Routes) List(resource string, params map[string]any) (string, error) {
	builder, err := r.builder(RouteName(resource, routeList))
	if err != nil {
		return "", err
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if params[key] == nil {
			continue
		}
		builder.WithQuery(key, fmt.Sprint(params[key]))
	}
	return builder.Build()
}

// Item returns the URL of the entity identified by id.
func (r *Routes) Item(resource, id string) (string, error) {
	builder, err := r.builder(RouteName(resource, routeItem))
	if err != nil {
		return "", err
	}
	builder.WithParam("id", id)
	return builder.Build()
}

// Upload returns the multipart create URL of resource.
func (r *Routes) Upload(resource string) (string, error) {
	builder, err := r.builder(RouteName(resource, routeUpload))
	if err != nil {
		return "", err
	}
	return builder.Build()
}

func (r *Routes) builder(route string) (builder *urlkit.Builder, err error) {
	if r == nil || r.group == nil {
		return nil, ErrRouteManagerRequired
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("resources: route %q not found: %v", route, rec)
		}
	}()
	builder = r.group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, ErrRouteManagerRequired
	}
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("resources: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}
