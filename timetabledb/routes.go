package timetabledb

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned by single record lookups that match nothing.
var ErrNotFound = errors.New("not found")

// GetRoute looks up a route by id.
func (c *Client) GetRoute(ctx context.Context, id string) (Route, error) {
	db, err := c.handle(ctx)
	if err != nil {
		return Route{}, err
	}

	var route Route
	err = db.QueryRowContext(ctx, "SELECT id, source, destination FROM routes WHERE id = ?", id).
		Scan(&route.ID, &route.Source, &route.Destination)
	if errors.Is(err, sql.ErrNoRows) {
		return Route{}, ErrNotFound
	}
	if err != nil {
		return Route{}, &QueryError{Name: "get_route", Err: err}
	}
	return route, nil
}

// ListRoutes returns all routes ordered by id.
func (c *Client) ListRoutes(ctx context.Context) ([]Route, error) {
	set, err := collect(ctx, c, "list_routes", "SELECT id, source, destination FROM routes ORDER BY id",
		func(row rowScanner, _ int) (Route, error) {
			var route Route
			err := row.Scan(&route.ID, &route.Source, &route.Destination)
			return route, err
		})
	return set.Rows, err
}

// ListPorts returns all ports ordered by code.
func (c *Client) ListPorts(ctx context.Context) ([]Port, error) {
	set, err := collect(ctx, c, "list_ports", "SELECT code, name FROM ports ORDER BY code",
		func(row rowScanner, _ int) (Port, error) {
			var port Port
			err := row.Scan(&port.Code, &port.Name)
			return port, err
		})
	return set.Rows, err
}
