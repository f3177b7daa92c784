package resources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

var (
	ErrTransportRequired = errors.New("resources: transport is required")
	ErrResourceRequired  = errors.New("resources: resource name is required")
	ErrIDRequired        = errors.New("resources: id is required")
)

// Service wraps the REST endpoints of one resource. Its methods match the
// datagrid function types so they can be handed to an engine directly.
type Service[E any] struct {
	resource  string
	transport interfaces.Transport
	routes    *Routes
}

// NewService builds a service for resource.
func NewService[E any](resource string, transport interfaces.Transport, routes *Routes) (*Service[E], error) {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return nil, ErrResourceRequired
	}
	if transport == nil {
		return nil, ErrTransportRequired
	}
	if routes == nil {
		return nil, ErrRouteManagerRequired
	}
	return &Service[E]{resource: resource, transport: transport, routes: routes}, nil
}

// Resource returns the wrapped resource name.
func (s *Service[E]) Resource() string {
	return s.resource
}

// List fetches one page of the collection.
func (s *Service[E]) List(ctx context.Context, params datagrid.QueryParams) (*interfaces.Envelope, error) {
	target, err := s.routes.List(s.resource, params)
	if err != nil {
		return nil, err
	}
	return s.transport.Get(ctx, target)
}

// Create posts a by-reference payload as JSON.
func (s *Service[E]) Create(ctx context.Context, payload datagrid.Form) (*interfaces.Envelope, error) {
	target, err := s.routes.List(s.resource, nil)
	if err != nil {
		return nil, err
	}
	return s.transport.Post(ctx, target, map[string]any(payload))
}

// Upload posts payload as multipart form fields next to the file part.
func (s *Service[E]) Upload(ctx context.Context, payload datagrid.Form, upload *interfaces.Upload) (*interfaces.Envelope, error) {
	target, err := s.routes.Upload(s.resource)
	if err != nil {
		return nil, err
	}
	return s.transport.PostMultipart(ctx, target, FormFields(payload), upload)
}

// Update sends changes as a partial update.
func (s *Service[E]) Update(ctx context.Context, id string, changes datagrid.Form) (*interfaces.Envelope, error) {
	target, err := s.itemURL(id)
	if err != nil {
		return nil, err
	}
	return s.transport.Patch(ctx, target, map[string]any(changes))
}

// Delete removes the entity identified by id.
func (s *Service[E]) Delete(ctx context.Context, id string) (*interfaces.Envelope, error) {
	target, err := s.itemURL(id)
	if err != nil {
		return nil, err
	}
	return s.transport.Delete(ctx, target)
}

func (s *Service[E]) itemURL(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrIDRequired
	}
	return s.routes.Item(s.resource, id)
}

// FormFields flattens a form into multipart fields. Upload handles and nil
// values are skipped; string slices are comma joined.
func FormFields(form datagrid.Form) map[string]string {
	fields := make(map[string]string, len(form))
	for key, value := range form {
		switch typed := value.(type) {
		case nil, *interfaces.Upload:
			continue
		case string:
			fields[key] = typed
		case bool:
			fields[key] = strconv.FormatBool(typed)
		case []string:
			fields[key] = strings.Join(typed, ",")
		default:
			fields[key] = fmt.Sprint(typed)
		}
	}
	return fields
}

// SplitTags parses a comma separated tag list, dropping blanks.
func SplitTags(value string) []string {
	var tags []string
	for _, part := range strings.Split(value, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags renders tags the way forms edit them.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
