package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the dashboard root.
	RootPath = "/"

	// APIPath is the prefix of the JSON API.
	APIPath = "/api"

	// ErrNotLoggedIn is the API error message for requests without session.
	ErrNotLoggedIn = "Not logged in"
)
