// Package contract holds the OpenAPI description of the storefront backend
// and checks responses against it.
package contract

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var embedded []byte

// Operation is one documented backend call.
type Operation struct {
	ID     string
	Method string
	Path   string
}

// Contract is a loaded, validated OpenAPI document plus a router over it.
type Contract struct {
	doc      *openapi3.T
	router   routers.Router
	basePath string
	source   string
}

// Load parses the embedded backend description. baseURL is the configured
// backend URL; its path prefix (if any) is stripped before routing.
func Load(ctx context.Context, baseURL string) (*Contract, error) {
	return load(ctx, embedded, "embedded", baseURL)
}

// LoadFile parses an OpenAPI document from disk instead of the embedded one.
func LoadFile(ctx context.Context, path, baseURL string) (*Contract, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	return build(ctx, doc, path, baseURL)
}

func load(ctx context.Context, data []byte, source, baseURL string) (*Contract, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	return build(ctx, doc, source, baseURL)
}

func build(ctx context.Context, doc *openapi3.T, source, baseURL string) (*Contract, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	// Route on path alone; the backend host comes from configuration.
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	basePath := ""
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		basePath = strings.TrimRight(u.Path, "/")
	}

	return &Contract{doc: doc, router: router, basePath: basePath, source: source}, nil
}

// Source names where the document came from.
func (c *Contract) Source() string { return c.source }

// Version returns info.version of the document.
func (c *Contract) Version() string {
	if c.doc.Info == nil {
		return ""
	}
	return c.doc.Info.Version
}

// Operations lists every documented operation sorted by path then method.
func (c *Contract) Operations() []Operation {
	var ops []Operation
	for path, item := range c.doc.Paths.Map() {
		for method, op := range item.Operations() {
			ops = append(ops, Operation{ID: op.OperationID, Method: method, Path: path})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return ops
}

// ValidateResponse checks a response body and headers against the
// documented schema for the request's route. Requests to undocumented
// routes are an error.
func (c *Contract) ValidateResponse(ctx context.Context, req *http.Request, status int, header http.Header, body []byte) error {
	routed := req
	if c.basePath != "" && strings.HasPrefix(req.URL.Path, c.basePath) {
		routed = req.Clone(ctx)
		routed.URL.Path = strings.TrimPrefix(req.URL.Path, c.basePath)
		routed.URL.RawPath = ""
	}

	route, pathParams, err := c.router.FindRoute(routed)
	if err != nil {
		return fmt.Errorf("%s %s is not a documented operation: %w", req.Method, routed.URL.Path, err)
	}

	if header == nil {
		header = http.Header{}
	}
	if header.Get("Content-Type") == "" && len(body) > 0 {
		header = header.Clone()
		header.Set("Content-Type", "application/json")
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    routed,
			PathParams: pathParams,
			Route:      route,
		},
		Status: status,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
			MultiError:            true,
		},
	}

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, routed.URL.Path, err)
	}
	return nil
}
