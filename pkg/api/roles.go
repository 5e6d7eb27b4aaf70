package api

import "context"

// ListRoles filters by params such as tipo, nivel_min, nivel_max, activo.
func (c *Client) ListRoles(ctx context.Context, params map[string]string) ([]Role, error) {
	return Call[[]Role](ctx, c, Request{Endpoint: ListRoles, Query: params})
}

func (c *Client) GetRole(ctx context.Context, id int64) (Role, error) {
	return Call[Role](ctx, c, Request{Endpoint: GetRole, PathArgs: []any{id}})
}

func (c *Client) ListPermissions(ctx context.Context) ([]Permission, error) {
	return Call[[]Permission](ctx, c, Request{Endpoint: ListPermissions})
}

func (c *Client) CreateRole(ctx context.Context, in RoleInput) (Role, error) {
	return Call[Role](ctx, c, Request{Endpoint: CreateRole, Body: in})
}

func (c *Client) UpdateRole(ctx context.Context, id int64, in RoleInput) (Role, error) {
	return Call[Role](ctx, c, Request{Endpoint: UpdateRole, PathArgs: []any{id}, Body: in})
}

func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	_, err := Call[struct{}](ctx, c, Request{Endpoint: DeleteRole, PathArgs: []any{id}})
	return err
}
