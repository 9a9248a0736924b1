// ABOUTME: MCP resources for reading memos by URI.
// ABOUTME: memo://{+id}, memos://list, and memos://search/{+query} resolve through the client.

package mcp

import (
	"context"
	"net/url"
	"strings"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/memos"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	memoURIPrefix   = "memo://"
	listURI         = "memos://list"
	searchURIPrefix = "memos://search/"

	listResourcePageSize   = 50
	searchResourcePageSize = 20
)

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: memoURIPrefix + "{+id}",
			Name:        "Individual memo",
			Description: "Access an individual memo by name (memos/xxxxx) or bare id",
			MIMEType:    "application/json",
		},
		s.resourceHandler("memo", s.readMemo),
	)

	s.server.AddResource(
		&mcp.Resource{
			URI:         listURI,
			Name:        "Recent memos list",
			Description: "Access the list of recent memos",
			MIMEType:    "application/json",
		},
		s.resourceHandler("list", s.readList),
	)

	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: searchURIPrefix + "{+query}",
			Name:        "Memos search",
			Description: "Access memos whose content contains the query",
			MIMEType:    "application/json",
		},
		s.resourceHandler("search", s.readSearch),
	)
}

// resourceHandler renders failures as a JSON error document so a bad read
// never surfaces as a protocol fault.
func (s *Server) resourceHandler(name string, read func(ctx context.Context, uri string) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		ctx, done := s.begin(ctx, "resource", name)

		uri := req.Params.URI
		payload, err := read(ctx, uri)
		done(err)
		if err != nil {
			payload = newErrorPayload(err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     encode(payload),
				},
			},
		}, nil
	}
}

func (s *Server) readMemo(ctx context.Context, uri string) (any, error) {
	id, err := uriParam(uri, memoURIPrefix)
	if err != nil {
		return nil, err
	}
	memo, err := s.client.GetMemo(ctx, id)
	if err != nil {
		return nil, err
	}
	return newMemoView(memo), nil
}

func (s *Server) readList(ctx context.Context, _ string) (any, error) {
	page, err := s.client.ListMemos(ctx, memos.ListOptions{PageSize: listResourcePageSize})
	if err != nil {
		return nil, err
	}
	return newMemoList(page, ""), nil
}

func (s *Server) readSearch(ctx context.Context, uri string) (any, error) {
	query, err := uriParam(uri, searchURIPrefix)
	if err != nil {
		return nil, err
	}
	page, err := s.client.SearchMemos(ctx, memos.SearchOptions{Query: query, PageSize: searchResourcePageSize})
	if err != nil {
		return nil, err
	}
	return newMemoList(page, query), nil
}

// uriParam returns the unescaped remainder of uri after prefix.
func uriParam(uri, prefix string) (string, error) {
	if !strings.HasPrefix(uri, prefix) {
		return "", apperr.Validation("unsupported resource URI %q", uri)
	}
	raw := strings.TrimPrefix(uri, prefix)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperr.Validation("resource URI %q is not properly escaped: %v", uri, err)
	}
	if strings.TrimSpace(value) == "" {
		return "", apperr.Validation("resource URI %q has an empty parameter", uri)
	}
	return value, nil
}
